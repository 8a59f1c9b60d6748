package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/api/chatbot"
	"github.com/Conversly/crm-assistant/internal/config"
	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/extractor"
	"github.com/Conversly/crm-assistant/internal/llm"
	"github.com/Conversly/crm-assistant/internal/loaders"
	"github.com/Conversly/crm-assistant/internal/routes"
	"github.com/Conversly/crm-assistant/internal/sessions"
	"github.com/Conversly/crm-assistant/internal/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Warning: Error loading .env file", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	cleanup := utils.InitLogger(cfg)
	defer cleanup()

	utils.Zlog.Info("Starting application",
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.ServerPort),
		zap.String("llm_provider", cfg.LLM.Provider))

	ctx := context.Background()
	deps := routes.Dependencies{Config: cfg}

	records := customers.Fixture()
	if cfg.DatabaseURL != "" {
		db, err := loaders.NewPostgresClient(ctx, cfg.DatabaseURL)
		if err != nil {
			utils.Zlog.Error("Failed to create database client", zap.Error(err))
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				utils.Zlog.Error("Error closing database connection", zap.Error(err))
			}
		}()

		records, err = db.LoadCustomers(ctx)
		if err != nil {
			utils.Zlog.Error("Failed to load customers", zap.Error(err))
			os.Exit(1)
		}
		deps.DB = db
	} else {
		utils.Zlog.Info("DATABASE_URL not set, using built-in customer fixture")
	}
	deps.Store = customers.NewStore(records)

	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		utils.Zlog.Error("Failed to create chat model", zap.Error(err))
		os.Exit(1)
	}
	extractModel, err := llm.NewChatModel(ctx, cfg.LLM, llm.WithJSONOutput(), llm.WithTemperature(0))
	if err != nil {
		utils.Zlog.Error("Failed to create extraction model", zap.Error(err))
		os.Exit(1)
	}

	deps.Chatbot, err = chatbot.NewService(ctx,
		extractor.New(extractModel, cfg.LLM.Timeout),
		deps.Store,
		sessions.NewRegistry(),
		chatModel,
		cfg.LLM.Timeout,
	)
	if err != nil {
		utils.Zlog.Error("Failed to build chatbot service", zap.Error(err))
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	routes.SetupRoutes(router, deps)

	writeTimeout := routes.WriteTimeout(cfg.LLM.Timeout)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Zlog.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Zlog.Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Zlog.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	utils.Zlog.Info("Server exited")
}
