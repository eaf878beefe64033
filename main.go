package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"bithired/config"
	"bithired/database"
	"bithired/handlers"
	"bithired/insight"
	"bithired/ledger"
	"bithired/logger"
	"bithired/middleware"
	"bithired/notifier"
	"bithired/utils"
)

func main() {
	// Load environment variables; absence is fine in production where the
	// env comes from the process
	_ = godotenv.Load()

	cfg := config.Load()
	config.ValidateConfig(cfg)

	log := logger.Init(cfg.Environment)

	if err := utils.InitializeJWT(cfg.JWTSecret); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize JWT")
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	l := ledger.New(db, log, cfg.DailyDepositCeiling, cfg.DepositAccounts)
	ai := insight.NewClient(cfg.Insight.ProjectionURL, cfg.Insight.RateURL, cfg.Insight.APIKey)
	n := notifier.New(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, log)

	h := handlers.NewHandlers(db, cfg, l, ai, n, log)

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler)
	r.Use(middleware.RateLimit)

	// Public routes
	r.HandleFunc("/api/register", h.Register).Methods("POST")
	r.HandleFunc("/api/login", h.Login).Methods("POST")
	r.HandleFunc("/api/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/api/machines", h.GetMachines).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTAuth)

	// User routes
	protected.HandleFunc("/user/profile", h.GetProfile).Methods("GET")
	protected.HandleFunc("/user/profile", h.UpdateProfile).Methods("PUT")

	// Ledger routes
	protected.HandleFunc("/deposits/target", h.GetDepositTarget).Methods("GET")
	protected.HandleFunc("/deposits", h.SubmitDeposit).Methods("POST")
	protected.HandleFunc("/deposits", h.GetDeposits).Methods("GET")
	protected.HandleFunc("/withdrawals", h.SubmitWithdrawal).Methods("POST")
	protected.HandleFunc("/withdrawals", h.GetWithdrawals).Methods("GET")
	protected.HandleFunc("/redeem", h.Redeem).Methods("POST")

	// Rental routes
	protected.HandleFunc("/rentals", h.HireMachine).Methods("POST")
	protected.HandleFunc("/rentals", h.GetRentals).Methods("GET")
	protected.HandleFunc("/rentals/{id:[0-9]+}/collect", h.CollectEarnings).Methods("POST")
	protected.HandleFunc("/projection", h.GetProjection).Methods("GET")

	// Messaging
	protected.HandleFunc("/messages", h.SendMessage).Methods("POST")
	protected.HandleFunc("/messages", h.GetMessages).Methods("GET")

	// Admin routes
	adminRoutes := protected.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AdminAuth)
	adminRoutes.HandleFunc("/deposits/pending", h.GetPendingDeposits).Methods("GET")
	adminRoutes.HandleFunc("/deposits/{id:[0-9]+}/approve", h.ApproveDeposit).Methods("POST")
	adminRoutes.HandleFunc("/deposits/{id:[0-9]+}/decline", h.DeclineDeposit).Methods("POST")
	adminRoutes.HandleFunc("/withdrawals/pending", h.GetPendingWithdrawals).Methods("GET")
	adminRoutes.HandleFunc("/withdrawals/{id:[0-9]+}/approve", h.ApproveWithdrawal).Methods("POST")
	adminRoutes.HandleFunc("/withdrawals/{id:[0-9]+}/decline", h.DeclineWithdrawal).Methods("POST")
	adminRoutes.HandleFunc("/codes", h.GenerateCodes).Methods("POST")
	adminRoutes.HandleFunc("/codes", h.GetCodes).Methods("GET")
	adminRoutes.HandleFunc("/codes/consume", h.ConsumeCode).Methods("POST")
	adminRoutes.HandleFunc("/log", h.GetAdminLog).Methods("GET")
	adminRoutes.HandleFunc("/log/read", h.MarkLogRead).Methods("POST")
	adminRoutes.HandleFunc("/users", h.GetAllUsers).Methods("GET")
	adminRoutes.HandleFunc("/messages", h.AdminGetMessages).Methods("GET")
	adminRoutes.HandleFunc("/messages/reply", h.AdminReply).Methods("POST")

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
