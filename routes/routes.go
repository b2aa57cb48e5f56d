package routes

import (
	"fittrack/controllers"
	"fittrack/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Meal      *controllers.MealController
	Workout   *controllers.WorkoutController
	Record    *controllers.RecordController
	Analytics *controllers.AnalyticsController
	Friend    *controllers.FriendController
	Coach     *controllers.CoachController
	History   *controllers.HistoryController
	Device    *controllers.DeviceController
	Realtime  *controllers.RealtimeController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/forgot-password", ctrl.Auth.ForgotPassword)
		auth.POST("/reset-password", ctrl.Auth.ResetPassword)
	}

	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", ctrl.User.GetProfile)
		user.PUT("/profile", ctrl.User.UpdateProfile)
		user.PUT("/goals", ctrl.User.UpdateGoals)
		user.PUT("/notifications", ctrl.User.UpdateNotifications)
		user.PUT("/change-password", ctrl.User.ChangePassword)
		user.POST("/avatar", ctrl.User.UploadAvatar)
		user.DELETE("/avatar", ctrl.User.RemoveAvatar)
		user.GET("/common-activities", ctrl.User.CommonActivities)
		user.DELETE("/data", ctrl.User.ResetData)
		user.DELETE("/account", ctrl.User.DeleteAccount)

		user.GET("/export", ctrl.User.ExportCSV)
		user.POST("/export/email", ctrl.User.EmailExport)
		user.POST("/import", ctrl.User.ImportCSV)
	}

	meals := r.Group("/meals")
	meals.Use(middlewares.AuthMiddleware())
	{
		meals.POST("", ctrl.Meal.Log)
		meals.GET("", ctrl.Meal.List)
		meals.PUT("/:id", ctrl.Meal.Update)
		meals.DELETE("/:id", ctrl.Meal.Delete)
	}

	workouts := r.Group("/workouts")
	workouts.Use(middlewares.AuthMiddleware())
	{
		workouts.POST("", ctrl.Workout.Log)
		workouts.GET("", ctrl.Workout.List)
		workouts.PUT("/:id", ctrl.Workout.Update)
		workouts.DELETE("/:id", ctrl.Workout.Delete)
	}

	records := r.Group("/records")
	records.Use(middlewares.AuthMiddleware())
	{
		records.GET("", ctrl.Record.List)
		records.POST("/reconcile", ctrl.Record.Recalculate)
	}

	analytics := r.Group("/analytics")
	analytics.Use(middlewares.AuthMiddleware())
	{
		analytics.GET("/summary", ctrl.Analytics.GetSummary)
		analytics.GET("/calorie-history", ctrl.Analytics.GetCalorieHistory)
		analytics.GET("/lifetime", ctrl.Analytics.GetLifetime)
	}

	friends := r.Group("/friends")
	friends.Use(middlewares.AuthMiddleware())
	{
		friends.GET("", ctrl.Friend.Overview)
		friends.GET("/search", ctrl.Friend.Search)
		friends.GET("/suggestions", ctrl.Friend.Suggestions)
		friends.GET("/feed", ctrl.Friend.Feed)
		friends.GET("/leaderboard", ctrl.Friend.GetLeaderboard)
		friends.GET("/profile/:id", ctrl.Friend.Profile)
		friends.POST("/requests/:id", ctrl.Friend.SendRequest)
		friends.POST("/requests/:id/accept", ctrl.Friend.AcceptRequest)
	}

	coach := r.Group("/coach")
	coach.Use(middlewares.AuthMiddleware())
	{
		coach.POST("/recommend-meal", ctrl.Coach.RecommendMeal)
		coach.POST("/estimate-meal", ctrl.Coach.EstimateMealCalories)
		coach.POST("/estimate-workout", ctrl.Coach.EstimateWorkoutCalories)
		coach.POST("/analyze-progress", ctrl.Coach.AnalyzeProgress)
		coach.POST("/chat", ctrl.Coach.Chat)
		coach.POST("/goal-tips", ctrl.Coach.GoalTips)
	}

	history := r.Group("/history")
	history.Use(middlewares.AuthMiddleware())
	{
		history.GET("", ctrl.History.List)
	}

	devices := r.Group("/devices")
	devices.Use(middlewares.AuthMiddleware())
	{
		devices.POST("", ctrl.Device.Register)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/feed", ctrl.Realtime.FeedWS)
	}

	return r
}
