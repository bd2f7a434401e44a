package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"token-wager-system/handlers"
	"token-wager-system/middleware"
	"token-wager-system/models"
	"token-wager-system/services"
	"token-wager-system/utils"
	"token-wager-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		ReadTimeout: 30 * time.Second,
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.GameRoom{},
		&models.WalletUser{},
		&models.PayoutReceipt{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	gatewayURL := os.Getenv("CHAIN_GATEWAY_URL")
	if gatewayURL == "" {
		log.Fatal("CHAIN_GATEWAY_URL environment variable not set")
	}
	gatewayToken := os.Getenv("CHAIN_GATEWAY_TOKEN")
	if gatewayToken == "" {
		log.Fatal("CHAIN_GATEWAY_TOKEN environment variable not set")
	}

	chainGateway := services.NewChainGatewayClient(gatewayURL, gatewayToken)
	wagerService := services.NewWagerService(db, chainGateway)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	receiptWorker := workers.NewReceiptSyncWorker(db, chainGateway)
	go receiptWorker.PollReceipts(ctx, 30*time.Second)

	wagerService.StartRoomSweeper(ctx)

	archiver := workers.NewSettlementArchiver(db)
	if utils.R2Configured() {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	}
	archiver.Start(ctx)

	handlers.SetupWagerRoutes(app, wagerService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Token Wager Service is Running! 🚀")
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":5300"
	}

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on %s", addr)
	log.Printf("✅ Platform fee: %d bps, cancel cooldown: %s", wagerService.FeeBps, wagerService.CancelCooldown)
	log.Println("✅ Receipt polling running (every 30s)")
	log.Println("✅ Stale-room sweeper running (hourly)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
