package app

import (
	"database/sql"
	"fmt"
	"log"

	"windpermit/internal/config"
	"windpermit/internal/handlers"
	"windpermit/internal/migrations"
	"windpermit/internal/pdf"
	"windpermit/internal/realtime"
	"windpermit/internal/repositories"
	"windpermit/internal/routes"
	"windpermit/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	swaggerFiles "github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	_ "windpermit/docs"
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

	// === Миграции ===
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Ошибка выбора диалекта миграций: ", err)
	}
	if err := goose.Up(db, "."); err != nil {
		log.Fatal("Ошибка применения миграций: ", err)
	}

	// === Repos ===
	verificationRepo := repositories.NewVerificationRepository(db)
	counterRepo := repositories.NewCounterRepository(db)
	permitRepo := repositories.NewPermitRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	checklistRepo := repositories.NewChecklistRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// Telegram опционален: без токена просто пишем в лог и живём дальше
	var notifier services.PendingNotifier
	if cfg.Telegram.Enabled {
		tg, err := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("[app] telegram отключён: %v", err)
		} else {
			notifier = tg
		}
	}

	hub := realtime.NewPermitHub()
	pdfGen := pdf.NewPermitGenerator(cfg.Files.RootDir)

	verificationService := services.NewVerificationService(verificationRepo, emailService)
	allocator := services.NewAllocatorService(counterRepo)
	permitService := services.NewPermitService(permitRepo, hub, emailService, notifier)
	workflowService := services.NewWorkflowService(verificationService, allocator, permitService, auditRepo)
	checklistService := services.NewChecklistService(checklistRepo)
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// === Handlers ===
	verifyHandler := handlers.NewVerifyHandler(verificationService, workflowService)
	authHandler := handlers.NewAuthHandler(verificationService, authService, cfg.IsManagerEmail)
	permitHandler := handlers.NewPermitHandler(permitService, workflowService, pdfGen)
	checklistHandler := handlers.NewChecklistHandler(checklistService)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Роуты (JWT — внутри SetupRoutes)
	routes.SetupRoutes(
		router,
		verifyHandler,
		authHandler,
		permitHandler,
		checklistHandler,
		auditHandler,
		[]byte(cfg.Auth.JWTSecret),
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
