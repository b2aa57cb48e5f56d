package controllers

import (
	"net/http"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MealController struct {
	Meals   *services.MealService
	Records *services.RecordService
	Friends *services.FriendService
	Hub     *services.FeedHub
	Logger  *zap.Logger
}

func NewMealController(meals *services.MealService, records *services.RecordService, friends *services.FriendService, hub *services.FeedHub, log *zap.Logger) *MealController {
	return &MealController{Meals: meals, Records: records, Friends: friends, Hub: hub, Logger: log}
}

type MealInput struct {
	Name     string    `json:"name" binding:"required"`
	Calories int       `json:"calories"`
	AteAt    time.Time `json:"ateAt"`
}

func (mc *MealController) Log(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input MealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.Meals.Log(c.Request.Context(), userID, input.Name, input.Calories, input.AteAt)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := mc.Records.Reconcile(c.Request.Context(), userID); err != nil {
		mc.Logger.Warn("record reconcile failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	mc.Friends.PublishActivity(c.Request.Context(), mc.Hub, userID, "meal", meal.Name, meal.AteAt)

	c.JSON(http.StatusCreated, meal)
}

func (mc *MealController) List(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	meals, err := mc.Meals.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (mc *MealController) Update(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mealID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var input MealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.Meals.Update(c.Request.Context(), userID, mealID, input.Name, input.Calories)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := mc.Records.Reconcile(c.Request.Context(), userID); err != nil {
		mc.Logger.Warn("record reconcile failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) Delete(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mealID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := mc.Meals.Delete(c.Request.Context(), userID, mealID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}
