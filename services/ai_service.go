package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"food-donation-server/config"
)

// AIService answers meal-planning questions through the Gemini API. When
// the key is missing or the service misbehaves it degrades to a readable
// message instead of an error; the assistant is a convenience, not a
// dependency.
type AIService struct {
	apiKey string
	client *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewAIService() *AIService {
	return &AIService{
		apiKey: config.AppConfig.External.GeminiAPIKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// MealPlanPrompt builds the waste-minimizing prompt from the submitted
// fields. Exactly one of customQuery or dishName+numPeople is expected;
// the handler validates that before calling.
func MealPlanPrompt(customQuery, dishName, numPeople, mealType string) string {
	if customQuery != "" {
		return fmt.Sprintf(`Question : I Want to Prepare %s
Instructions
1. If the question is not related to food, do not answer.
2. Provide precise amounts according to Indian Food Standards.
3. Focus on minimizing food waste.`, customQuery)
	}
	return fmt.Sprintf(`Question : I Want to Prepare %s for Number of People: %s for %s without wasting any Food Give me Presize Amounts of Food according to Indian Food Standards.
Instructions
1. If the question is not related to food, do not answer.
2. Provide precise amounts according to Indian Food Standards.
3. Focus on minimizing food waste.`, dishName, numPeople, mealType)
}

// Ask sends a prompt to Gemini and returns the cleaned reply text.
// Configuration and transport problems come back as a user-facing string
// with ok=false, never as a panic or a raw 5xx.
func (ai *AIService) Ask(prompt string) (string, bool) {
	if ai.apiKey == "" {
		return "Error: Gemini API key not configured. Please set GEMINI_API_KEY in your environment variables.", false
	}

	reply, err := ai.callGemini(prompt)
	if err != nil {
		return fmt.Sprintf("Error communicating with AI service: %v. Please try again later.", err), false
	}

	return CleanAIMarkdown(reply), true
}

func (ai *AIService) callGemini(prompt string) (string, error) {
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent?key=%s", ai.apiKey)

	request := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	resp, err := ai.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d", resp.StatusCode)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

var bulletMarkerRe = regexp.MustCompile(`(?m)^\s*[\*-]\s+`)

// CleanAIMarkdown strips simple Markdown markers so clients don't show raw
// ** and *: bold markers are removed and leading list markers become a
// unicode bullet.
func CleanAIMarkdown(text string) string {
	if text == "" {
		return ""
	}
	withoutBold := strings.ReplaceAll(text, "**", "")
	return bulletMarkerRe.ReplaceAllString(withoutBold, "• ")
}
