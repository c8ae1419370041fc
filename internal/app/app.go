package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"afisha/internal/config"
	"afisha/internal/handlers"
	"afisha/internal/middleware"
	"afisha/internal/repositories"
	"afisha/internal/routes"
	"afisha/internal/services"
	"afisha/internal/utils"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	middleware.JWTKey = []byte(cfg.Auth.JWTSecret)

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	smsRepo := repositories.NewSMSCodeRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	partRepo := repositories.NewParticipationRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	directoryRepo := repositories.NewDirectoryRepository(db)

	// === Services ===
	smsClient := utils.NewSMSTrafficClient(cfg.SMSTraffic)
	smsAuthService := services.NewSMSAuthService(smsRepo, userRepo, smsClient, cfg.SMSAuth)
	tokenService := services.NewTokenService(userRepo, cfg.Auth)
	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo, partRepo, userRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo, eventRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(smsAuthService, tokenService)
	userHandler := handlers.NewUserHandler(userService, cfg.PageSize)
	eventHandler := handlers.NewEventHandler(eventService, cfg.PageSize)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	directoryHandler := handlers.NewDirectoryHandler(directoryRepo)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		eventHandler,
		favoriteHandler,
		directoryHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
