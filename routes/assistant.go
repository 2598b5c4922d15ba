package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"food-donation-server/services"
)

// AssistantRequest is a meal-planning question: either a free-form query,
// or a dish plus headcount.
type AssistantRequest struct {
	CustomQuery string `json:"custom_query"`
	DishName    string `json:"dish_name"`
	NumPeople   string `json:"num_people"`
	MealType    string `json:"meal_type"`
}

// RegisterAssistantRoutes registers the meal-planning chatbot route
func RegisterAssistantRoutes(router *gin.RouterGroup) {
	router.POST("/assistant", askAssistant)
}

// askAssistant builds the waste-minimizing prompt and forwards it to the
// AI service. A missing key or upstream failure produces a readable reply
// with success=false, never a 5xx.
func askAssistant(c *gin.Context) {
	var req AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	customQuery := strings.TrimSpace(req.CustomQuery)
	dishName := strings.TrimSpace(req.DishName)
	numPeople := strings.TrimSpace(req.NumPeople)

	if customQuery == "" && (dishName == "" || numPeople == "") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Incomplete question",
			"message": "Provide either a custom query, or a dish name with the number of people",
		})
		return
	}

	mealType := req.MealType
	if mealType == "" {
		mealType = "Lunch"
	}

	prompt := services.MealPlanPrompt(customQuery, dishName, numPeople, mealType)
	reply, ok := services.NewAIService().Ask(prompt)

	c.JSON(http.StatusOK, gin.H{
		"success": ok,
		"data":    gin.H{"reply": reply},
	})
}
