package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jobledger/JobLedger-server/internal/auth"
	"github.com/jobledger/JobLedger-server/internal/database"
	"github.com/jobledger/JobLedger-server/internal/handlers"
	"github.com/jobledger/JobLedger-server/internal/services"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	ctx := context.Background()

	// 2. Service-identity credentials for the spreadsheet/file APIs
	creds := auth.GetServiceCredentials(ctx)

	sheetsService, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		log.Fatal("Failed to create Sheets service:", err)
	}
	driveService, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		log.Fatal("Failed to create Drive service:", err)
	}

	// 3. User store
	db := database.Connect(ctx)
	defer db.Close()

	// 4. Core services
	llmService := services.NewLLMService()
	userService := services.NewUserService(db)
	sheetService := services.NewSheetService(sheetsService, driveService)

	// 5. Handlers
	jobHandler := handlers.NewJobHandler(llmService, userService, sheetService)

	// 6. Router & CORS
	r := gin.Default()
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	// 7. Routes
	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/query", jobHandler.HandleQuery)
		api.POST("/sheets", jobHandler.HandleSheets)
		api.POST("/link", jobHandler.HandleLink)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Server starting on port " + port + "...")
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
