package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Edcode-bot/MiniSente/handlers/auth"
	"github.com/Edcode-bot/MiniSente/handlers/contacts"
	"github.com/Edcode-bot/MiniSente/handlers/payments"
	"github.com/Edcode-bot/MiniSente/handlers/transactions"
	"github.com/Edcode-bot/MiniSente/handlers/utilities"
	"github.com/Edcode-bot/MiniSente/metrics"
	"github.com/Edcode-bot/MiniSente/migrations"
	"github.com/Edcode-bot/MiniSente/seed"
	"github.com/Edcode-bot/MiniSente/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"https://minisente.vercel.app", "http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
	}))

	utils.LoadJwtSecret()
	utils.ConnectDatabase()

	migrations.Migrate()

	if err := seed.SeedPaymentLimits(); err != nil {
		log.Fatalf("Failed to seed payment limits: %v", err)
	}

	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/webhook/flutterwave", payments.FlutterwaveWebhook)
	r.POST("/webhook/transaction", transactions.TransactionWebhook)
	r.GET("/metrics", metrics.Handler())

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/deposit/mobile-money", payments.InitiateDeposit)
		protected.POST("/withdraw/mobile-money", payments.InitiateWithdrawal)
		protected.GET("/payments", payments.GetPayments)
		protected.GET("/limits", payments.GetLimits)
		protected.POST("/transactions", transactions.RecordTransaction)
		protected.GET("/transactions", transactions.GetTransactions)
		utilities.RegisterUtilitiesRoutes(protected)
		contacts.RegisterContactsRoutes(protected)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
