package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gamecafe-pos/internal/config"
	"gamecafe-pos/internal/handlers"
	"gamecafe-pos/internal/middleware"
	"gamecafe-pos/internal/services"
	"gamecafe-pos/internal/store"
)

func main() {
	mintToken := flag.Bool("mint-admin-token", false, "print a fresh admin token and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	jwtService := services.NewJWTService(cfg)

	if *mintToken {
		token, err := jwtService.GenerateAdminToken(24 * time.Hour)
		if err != nil {
			log.Fatalf("Failed to mint admin token: %v", err)
		}
		fmt.Println(token)
		return
	}

	var st store.Store
	if cfg.RedisAddr != "" {
		redisStore, err := store.NewRedisStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		st = redisStore
	} else {
		fileStore, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open data directory: %v", err)
		}
		st = fileStore
	}

	feed := handlers.NewOccupancyFeed()
	posHandler := handlers.NewPOSHandler(st, feed, cfg.InvoiceDir)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/games", posHandler.ListGames)
		api.GET("/stations", posHandler.ListStations)
		api.GET("/sessions", posHandler.ListSessions)
		api.GET("/users/:mobile", posHandler.GetUser)
		api.POST("/start_session", posHandler.StartSession)
		api.POST("/end_session", posHandler.EndSession)
		api.POST("/games/update_price", middleware.AdminAuth(jwtService), posHandler.UpdatePrice)
		api.GET("/ws", feed.HandleWebSocket)
	}
	router.Static("/invoices", cfg.InvoiceDir)

	log.Printf("POS server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
