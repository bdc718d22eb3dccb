package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"tiffin_khata_backend/internal/database"
	"tiffin_khata_backend/internal/queue"
	"tiffin_khata_backend/internal/router"
	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize Logger
	utils.InitLogger()

	// JWT signing secret
	utils.InitJWT(utils.Getenv("JWT_SECRET", ""))

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "tiffin_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "tiffin_password")
	dbName := utils.Getenv("DB_NAME", "tiffin_khata_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	// Initialize Database
	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	// Optional RabbitMQ broker for push-style notification fan-out. Without it
	// notifications still land in the in-app feed.
	var broker queue.Broker
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		rabbit, err := queue.NewRabbitMQBroker(queue.Config{URL: amqpURL, PrefetchCount: 10})
		if err != nil {
			utils.LogError(err, "Failed to connect to RabbitMQ, continuing without broker")
		} else {
			broker = rabbit
			defer rabbit.Close()
			utils.LogInfo("RabbitMQ broker connected", map[string]interface{}{"queue": queue.QueueNotifications})
		}
	}

	// Admin-addressed notifications fan out to these accounts.
	var adminIDs []string
	if raw := os.Getenv("ADMIN_USER_IDS"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				adminIDs = append(adminIDs, trimmed)
			}
		}
	}

	engine := gin.Default()

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	router.Setup(engine, database.GetDB(), router.Config{
		AdminIDs: adminIDs,
		Clock:    clockConfigFromEnv(),
		Broker:   broker,
	})

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// clockConfigFromEnv reads the meal window policy, falling back to the
// production defaults for anything unset.
func clockConfigFromEnv() services.ClockConfig {
	cfg := services.DefaultClockConfig()
	cfg.OpenHour = getenvInt("KITCHEN_OPEN_HOUR", cfg.OpenHour)
	cfg.LunchEndHour = getenvInt("LUNCH_END_HOUR", cfg.LunchEndHour)
	cfg.RolloverHour = getenvInt("ROLLOVER_HOUR", cfg.RolloverHour)
	cfg.LunchCutoff = utils.Getenv("LUNCH_CUTOFF", cfg.LunchCutoff)
	cfg.DinnerCutoff = utils.Getenv("DINNER_CUTOFF", cfg.DinnerCutoff)
	return cfg
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		utils.LogWarn("Invalid integer env value, using default", map[string]interface{}{"key": key, "value": raw})
		return fallback
	}
	return parsed
}
