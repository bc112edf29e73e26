package main

import (
	"log"
	"os"

	_ "ledgerly-backend/api/swagger" // swagger docs
	"ledgerly-backend/internal/database"
	"ledgerly-backend/internal/handler"
	"ledgerly-backend/internal/middleware"
	"ledgerly-backend/internal/repository"
	"ledgerly-backend/internal/service"
	"ledgerly-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Ledgerly API
// @version         1.0
// @description     Small-business accounting backend: bookings, invoices, transactions, bank-feed import.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Probe the schema once; write shapes branch on these flags instead of
	// matching error text per request.
	caps := database.DetectCapabilities(db)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	bookingRepo := repository.NewBookingRepository(db, caps)
	eventRepo := repository.NewCalendarEventRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db, caps)
	txnRepo := repository.NewTransactionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	transactionService := service.NewTransactionService(txnRepo, businessRepo, auditRepo)
	bookingService := service.NewBookingService(bookingRepo, eventRepo, invoiceRepo, serviceRepo, businessRepo, auditRepo, transactionService, wsHub)
	invoiceService := service.NewInvoiceService(invoiceRepo, businessRepo)
	calendarService := service.NewCalendarService(eventRepo, businessRepo)
	businessService := service.NewBusinessService(businessRepo, serviceRepo, userRepo, txManager)
	statisticsService := service.NewStatisticsService(db, businessRepo)
	auditService := service.NewAuditService(auditRepo, businessRepo)

	// Initialize Handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	businessHandler := handler.NewBusinessHandler(businessService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	bookingHandler.RegisterRoutes(router.Group(""))
	calendarHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	transactionHandler.RegisterRoutes(router.Group(""))
	businessHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
