package utils

import "testing"

func TestNutritionalScoreEmptyInput(t *testing.T) {
	got := NutritionalScore("", "Lunch")

	if got.Score != 0 || got.Calories != 0 || got.Protein != 0 ||
		got.Carbs != 0 || got.Fats != 0 || got.Fiber != 0 {
		t.Errorf("empty input must produce all zeros, got %+v", got)
	}
	if got.Notes != "No ingredients provided" {
		t.Errorf("unexpected notes: %q", got.Notes)
	}
}

func TestNutritionalScoreBaseline(t *testing.T) {
	// No keyword hits: the fixed baseline comes back untouched
	got := NutritionalScore("water, salt", "Dinner")

	if got.Score != 50 {
		t.Errorf("baseline score = %d, want 50", got.Score)
	}
	if got.Calories != 200 || got.Protein != 5 || got.Carbs != 30 || got.Fats != 5 || got.Fiber != 2 {
		t.Errorf("baseline values wrong: %+v", got)
	}
	if got.MealType != "Dinner" {
		t.Errorf("meal type not carried through: %q", got.MealType)
	}
}

func TestNutritionalScoreKeywordIncrements(t *testing.T) {
	// One healthy hit (+5 score, +2 fiber), one protein hit (+3 score,
	// +5 protein, +50 cal), one carb hit (+20 carbs, +80 cal)
	got := NutritionalScore("vegetable curry with chicken and rice", "Lunch")

	if got.Score != 58 {
		t.Errorf("score = %d, want 58", got.Score)
	}
	if got.Fiber != 4 {
		t.Errorf("fiber = %v, want 4", got.Fiber)
	}
	if got.Protein != 10 {
		t.Errorf("protein = %v, want 10", got.Protein)
	}
	if got.Carbs != 50 {
		t.Errorf("carbs = %v, want 50", got.Carbs)
	}
	if got.Calories != 330 {
		t.Errorf("calories = %v, want 330", got.Calories)
	}
}

func TestNutritionalScoreCappedAt100(t *testing.T) {
	// Every keyword from every set
	all := "vegetable fruit whole grain legume nut seed " +
		"chicken fish meat egg dairy tofu bean lentil " +
		"rice wheat bread pasta potato corn"
	got := NutritionalScore(all, "")

	if got.Score != 100 {
		t.Errorf("score = %d, want cap at 100", got.Score)
	}
}

func TestNutritionalScoreCaseInsensitive(t *testing.T) {
	lower := NutritionalScore("chicken", "")
	upper := NutritionalScore("CHICKEN", "")

	if lower.Score != upper.Score || lower.Protein != upper.Protein {
		t.Errorf("matching must be case-insensitive: %+v vs %+v", lower, upper)
	}
}
