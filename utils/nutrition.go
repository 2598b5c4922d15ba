package utils

import "strings"

// NutritionAnalysis is a keyword-based estimate of a dish's nutrition.
type NutritionAnalysis struct {
	Score    int     `json:"score"` // 0-100
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
	MealType string  `json:"meal_type,omitempty"`
	Notes    string  `json:"notes"`
}

// Keyword sets driving the estimate. Matching is substring-based on the
// lower-cased ingredient text.
var (
	healthyKeywords = []string{"vegetable", "fruit", "whole grain", "legume", "nut", "seed"}
	proteinKeywords = []string{"chicken", "fish", "meat", "egg", "dairy", "tofu", "bean", "lentil"}
	carbKeywords    = []string{"rice", "wheat", "bread", "pasta", "potato", "corn"}
)

// NutritionalScore estimates nutrition for a comma-separated ingredient
// list. This is a heuristic placeholder, not a nutrition-accurate
// computation: fixed baselines adjusted by keyword hits, score capped
// at 100. Empty input yields an all-zero result.
func NutritionalScore(ingredients, mealType string) NutritionAnalysis {
	if ingredients == "" {
		return NutritionAnalysis{
			Notes: "No ingredients provided",
		}
	}

	ingredientsLower := strings.ToLower(ingredients)

	score := 50
	calories := 200.0
	protein := 5.0
	carbs := 30.0
	fats := 5.0
	fiber := 2.0

	for _, keyword := range healthyKeywords {
		if strings.Contains(ingredientsLower, keyword) {
			score += 5
			fiber += 2
		}
	}

	for _, keyword := range proteinKeywords {
		if strings.Contains(ingredientsLower, keyword) {
			score += 3
			protein += 5
			calories += 50
		}
	}

	for _, keyword := range carbKeywords {
		if strings.Contains(ingredientsLower, keyword) {
			carbs += 20
			calories += 80
		}
	}

	if score > 100 {
		score = 100
	}

	return NutritionAnalysis{
		Score:    score,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fats:     fats,
		Fiber:    fiber,
		MealType: mealType,
		Notes:    "Basic estimation - use proper nutritional API for accurate data",
	}
}
