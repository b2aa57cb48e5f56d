package main

import (
	"os"

	"fittrack/config"
	"fittrack/controllers"
	"fittrack/routes"
	"fittrack/services"
	"fittrack/utils"
	"fittrack/workers"

	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	config.InitDB()
	utils.InitSES()
	utils.InitS3()
	utils.InitRekognition()

	db := config.DB

	coach := services.NewCoachService(db)
	records := services.NewRecordService(db, log)
	meals := services.NewMealService(db)
	workouts := services.NewWorkoutService(db)
	analytics := services.NewAnalyticsService(db)
	friends := services.NewFriendService(db)
	leaderboard := services.NewLeaderboardService(db, coach, log)
	users := services.NewUserService(db, log)
	portability := services.NewPortabilityService(db, log)
	hub := services.NewFeedHub()

	push, err := services.NewPushService(db, log)
	if err != nil {
		log.Fatal("push service init failed", zap.Error(err))
	}

	stopWorker, err := workers.Start(log, db, analytics, push)
	if err != nil {
		log.Fatal("worker start failed", zap.Error(err))
	}
	defer stopWorker()

	stopScheduler, err := workers.StartScheduler(log)
	if err != nil {
		log.Fatal("scheduler start failed", zap.Error(err))
	}
	defer stopScheduler()

	r := routes.SetupRouter(routes.Controllers{
		Auth:      controllers.NewAuthController(users),
		User:      controllers.NewUserController(users, portability, records, log),
		Meal:      controllers.NewMealController(meals, records, friends, hub, log),
		Workout:   controllers.NewWorkoutController(workouts, records, friends, hub, log),
		Record:    controllers.NewRecordController(records),
		Analytics: controllers.NewAnalyticsController(analytics),
		Friend:    controllers.NewFriendController(friends, leaderboard),
		Coach:     controllers.NewCoachController(coach, analytics),
		History:   controllers.NewHistoryController(meals, workouts),
		Device:    controllers.NewDeviceController(push),
		Realtime:  controllers.NewRealtimeController(hub),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
