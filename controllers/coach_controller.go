package controllers

import (
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

type CoachController struct {
	Coach     *services.CoachService
	Analytics *services.AnalyticsService
}

func NewCoachController(coach *services.CoachService, analytics *services.AnalyticsService) *CoachController {
	return &CoachController{Coach: coach, Analytics: analytics}
}

func (cc *CoachController) RecommendMeal(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input struct {
		CurrentCalories int `json:"currentCalories"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := cc.Coach.RecommendMeal(c.Request.Context(), userID, input.CurrentCalories)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": out})
}

func (cc *CoachController) EstimateMealCalories(c *gin.Context) {
	if _, ok := userIDFromCtx(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input struct {
		Name     string `json:"name" binding:"required"`
		Quantity string `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	calories, err := cc.Coach.EstimateMealCalories(c.Request.Context(), input.Name, input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calories": calories})
}

func (cc *CoachController) EstimateWorkoutCalories(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input struct {
		Name     string `json:"name" binding:"required"`
		Duration string `json:"duration" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	calories, err := cc.Coach.EstimateWorkoutCalories(c.Request.Context(), userID, input.Name, input.Duration)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"caloriesBurned": calories})
}

func (cc *CoachController) AnalyzeProgress(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	days := windowDaysQuery(c)
	calories, err := cc.Analytics.CalorieHistory(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := cc.Analytics.Summary(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := cc.Coach.AnalyzeProgress(c.Request.Context(), userID, calories, summary.WorkoutHistory)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": out})
}

func (cc *CoachController) Chat(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := cc.Coach.Chat(c.Request.Context(), userID, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": out})
}

func (cc *CoachController) GoalTips(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	out, err := cc.Coach.GoalTips(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": out})
}
