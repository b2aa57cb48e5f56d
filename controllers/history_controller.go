package controllers

import (
	"net/http"
	"sort"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	Meals    *services.MealService
	Workouts *services.WorkoutService
}

func NewHistoryController(meals *services.MealService, workouts *services.WorkoutService) *HistoryController {
	return &HistoryController{Meals: meals, Workouts: workouts}
}

type HistoryItem struct {
	Type     string    `json:"type"` // "meal" | "workout"
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Calories int       `json:"calories,omitempty"`
	Duration string    `json:"duration,omitempty"`
	Burned   *int      `json:"caloriesBurned,omitempty"`
	At       time.Time `json:"at"`
}

// List merges the user's meals and workouts into one timeline, newest
// first.
func (hc *HistoryController) List(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meals, err := hc.Meals.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	workouts, err := hc.Workouts.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]HistoryItem, 0, len(meals)+len(workouts))
	for _, m := range meals {
		items = append(items, HistoryItem{
			Type: "meal", ID: m.ID, Name: m.Name, Calories: m.Calories, At: m.AteAt,
		})
	}
	for _, w := range workouts {
		items = append(items, HistoryItem{
			Type: "workout", ID: w.ID, Name: w.Name, Duration: w.Duration, Burned: w.CaloriesBurned, At: w.PerformedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].At.After(items[j].At) })

	c.JSON(http.StatusOK, items)
}
