package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FRD_airdrop_bot/internal/api"
	"FRD_airdrop_bot/internal/bot"
	"FRD_airdrop_bot/internal/middleware"
	"FRD_airdrop_bot/internal/repository"
	"FRD_airdrop_bot/internal/service"
	"FRD_airdrop_bot/pkg/auth"
	"FRD_airdrop_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	feed := api.NewFeed()
	referralService := service.NewReferralService(repo, botAPI.Self.UserName, feed)
	credentialService := service.NewCredentialService(repo)
	states := service.NewStateTable()
	flow := service.NewFlowController(referralService, credentialService, states, cfg.Campaign.AdminIDs)

	telegramAuth := auth.NewTelegramAuth(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	adminGate := middleware.NewAuthorization(cfg.Campaign.AdminIDs)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	a := router.Group("/api/v1")
	api.NewCampaignRoutes(a, referralService, credentialService, telegramAuth, adminGate, feed)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := router.Run(addr); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bot.New(botAPI, flow)
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Fatal("Bot stopped", zap.Error(err))
	}
	zapLogger.Info("Shutting down")
}
