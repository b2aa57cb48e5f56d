package controllers

import (
	"net/http"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WorkoutController struct {
	Workouts *services.WorkoutService
	Records  *services.RecordService
	Friends  *services.FriendService
	Hub      *services.FeedHub
	Logger   *zap.Logger
}

func NewWorkoutController(workouts *services.WorkoutService, records *services.RecordService, friends *services.FriendService, hub *services.FeedHub, log *zap.Logger) *WorkoutController {
	return &WorkoutController{Workouts: workouts, Records: records, Friends: friends, Hub: hub, Logger: log}
}

type WorkoutInput struct {
	Name           string    `json:"name" binding:"required"`
	Duration       string    `json:"duration" binding:"required"`
	CaloriesBurned *int      `json:"caloriesBurned"`
	PerformedAt    time.Time `json:"performedAt"`
}

func (wc *WorkoutController) Log(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input WorkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workout, err := wc.Workouts.Log(c.Request.Context(), userID, input.Name, input.Duration, input.CaloriesBurned, input.PerformedAt)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := wc.Records.Reconcile(c.Request.Context(), userID); err != nil {
		wc.Logger.Warn("record reconcile failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	wc.Friends.PublishActivity(c.Request.Context(), wc.Hub, userID, "workout", workout.Name, workout.PerformedAt)

	c.JSON(http.StatusCreated, workout)
}

func (wc *WorkoutController) List(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	workouts, err := wc.Workouts.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (wc *WorkoutController) Update(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	workoutID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var input WorkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workout, err := wc.Workouts.Update(c.Request.Context(), userID, workoutID, input.Name, input.Duration, input.CaloriesBurned)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := wc.Records.Reconcile(c.Request.Context(), userID); err != nil {
		wc.Logger.Warn("record reconcile failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.JSON(http.StatusOK, workout)
}

func (wc *WorkoutController) Delete(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	workoutID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := wc.Workouts.Delete(c.Request.Context(), userID, workoutID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workout deleted"})
}
