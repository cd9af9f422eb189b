package handler

import (
	"database/sql"

	"finance_tracker/internal/activity"
	"finance_tracker/internal/auth"
	"finance_tracker/internal/config"
	"finance_tracker/internal/middleware"
	"finance_tracker/internal/record"
	"finance_tracker/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rabbitmq/amqp091-go"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, conn *amqp091.Connection, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.Default()

	// Initialize repositories
	userRepo := user.NewUserRepository()
	recordRepo := record.NewRecordRepository()
	activityRepo := activity.NewActivityRepository()

	// Initialize services
	policy := auth.NewPasswordPolicy(&cfg.Password)
	userService := user.NewUserService(userRepo, db, policy, cfg.JWT.Secret)
	recordService := record.NewRecordService(recordRepo, db, conn, redisClient)

	// Initialize controllers
	userController := user.NewUserController(userService)
	expenseController := record.NewRecordController(recordService, record.ExpenseKind)
	incomeController := record.NewRecordController(recordService, record.IncomeKind)
	activityController := activity.NewActivityController(activityRepo, db)

	setupRoutes(r, userController, expenseController, incomeController, activityController, userService, cfg.JWT.Secret)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(
	r *gin.Engine,
	userCtrl *user.UserController,
	expenseCtrl *record.RecordController,
	incomeCtrl *record.RecordController,
	activityCtrl *activity.ActivityController,
	userService user.UserServiceInterface,
	jwtSecret string,
) {
	// Public routes - Authentication
	authGroup := r.Group("/user")
	{
		authGroup.POST("/register", userCtrl.Register)
		authGroup.POST("/login", userCtrl.Login)
	}

	// Protected routes - everything under /api goes through the gate
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret, userService))
	{
		api.GET("/expenses", expenseCtrl.List)
		api.POST("/expenses", expenseCtrl.Create)
		api.PUT("/expenses/:id", expenseCtrl.Update)
		api.DELETE("/expenses/:id", expenseCtrl.Delete)

		api.GET("/income", incomeCtrl.List)
		api.POST("/income", incomeCtrl.Create)
		api.PUT("/income/:id", incomeCtrl.Update)
		api.DELETE("/income/:id", incomeCtrl.Delete)

		api.GET("/account", userCtrl.GetAccount)
		api.PUT("/account", userCtrl.UpdateAccount)

		api.GET("/activity", activityCtrl.List)
	}
}
