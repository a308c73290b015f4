package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sudip-bhr/Task-Management-System-backend/config"
	"github.com/sudip-bhr/Task-Management-System-backend/handlers"
	"github.com/sudip-bhr/Task-Management-System-backend/jobs"
	"github.com/sudip-bhr/Task-Management-System-backend/logging"
	"github.com/sudip-bhr/Task-Management-System-backend/middleware"
	"github.com/sudip-bhr/Task-Management-System-backend/services"
)

func main() {
	logging.InitLogger()
	logging.Logger.Info("starting task management server")

	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("configuration error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("database connection failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("database ping failed: %v", err)
	}
	logging.Logger.Infof("connected to MongoDB, database %s", cfg.MongoDBName)

	db := client.Database(cfg.MongoDBName)
	usersCollection := db.Collection("users")
	tasksCollection := db.Collection("tasks")

	// Email uniqueness is enforced by the store; the register-time lookup
	// alone would lose a race between two concurrent registrations.
	_, err = usersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logging.Logger.Fatalf("failed to create email index: %v", err)
	}

	// The dashboard and report endpoints each fan out into several store
	// reads; the breaker keeps a down store from eating one timeout per read.
	aggregationBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "store-aggregation",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("circuit breaker %q changed from %s to %s", name, from.String(), to.String())
		},
	})

	userService := services.NewUserService(usersCollection, tasksCollection, cfg.AdminInviteToken)
	taskService := services.NewTaskService(tasksCollection, usersCollection)
	dashboardService := services.NewDashboardService(tasksCollection, aggregationBreaker)
	reportService := services.NewReportService(tasksCollection, usersCollection, aggregationBreaker)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	reportHandler := handlers.NewReportHandler(reportService)

	r := mux.NewRouter()

	auth := func(h http.HandlerFunc) http.Handler { return middleware.Protect(h) }
	admin := func(h http.HandlerFunc) http.Handler { return middleware.Protect(middleware.AdminOnly(h)) }

	r.Handle("/api/auth/register", http.HandlerFunc(authHandler.Register)).Methods(http.MethodPost)
	r.Handle("/api/auth/login", http.HandlerFunc(authHandler.Login)).Methods(http.MethodPost)
	r.Handle("/api/auth/profile", auth(authHandler.GetProfile)).Methods(http.MethodGet)
	r.Handle("/api/auth/profile", auth(authHandler.UpdateProfile)).Methods(http.MethodPut)

	r.Handle("/api/users", admin(userHandler.GetUsers)).Methods(http.MethodGet)
	r.Handle("/api/users/{id}", auth(userHandler.GetUserByID)).Methods(http.MethodGet)

	r.Handle("/api/tasks/dashboard-data", admin(dashboardHandler.GetDashboardData)).Methods(http.MethodGet)
	r.Handle("/api/tasks/user-dashboard-data", auth(dashboardHandler.GetUserDashboardData)).Methods(http.MethodGet)
	r.Handle("/api/tasks", auth(taskHandler.GetTasks)).Methods(http.MethodGet)
	r.Handle("/api/tasks", admin(taskHandler.CreateTask)).Methods(http.MethodPost)
	r.Handle("/api/tasks/{id}", auth(taskHandler.GetTaskByID)).Methods(http.MethodGet)
	r.Handle("/api/tasks/{id}", auth(taskHandler.UpdateTask)).Methods(http.MethodPut)
	r.Handle("/api/tasks/{id}", admin(taskHandler.DeleteTask)).Methods(http.MethodDelete)
	r.Handle("/api/tasks/{id}/status", auth(taskHandler.UpdateTaskStatus)).Methods(http.MethodPut)
	r.Handle("/api/tasks/{id}/todo", auth(taskHandler.UpdateTaskChecklist)).Methods(http.MethodPut)

	r.Handle("/api/reports/export/tasks", admin(reportHandler.ExportTasksReport)).Methods(http.MethodGet)
	r.Handle("/api/reports/export/users", admin(reportHandler.ExportUsersReport)).Methods(http.MethodGet)

	scheduler := cron.New()
	if _, err := scheduler.AddJob("0 3 * * *", jobs.NewAssigneeCleanupJob(tasksCollection, usersCollection)); err != nil {
		logging.Logger.Fatalf("failed to schedule assignee cleanup: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	serverAddress := fmt.Sprintf(":%s", cfg.ServerPort)
	logging.Logger.Infof("server listening on %s", serverAddress)

	corsRouter := middleware.CORS(cfg.ClientOrigin)(r)
	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("server failed to start: %v", err)
	}
}
