package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"llm-chat-service/internal/auth"
	"llm-chat-service/internal/config"
	"llm-chat-service/internal/db"
	"llm-chat-service/internal/handlers"
	"llm-chat-service/internal/llm"
	"llm-chat-service/internal/middleware"
	"llm-chat-service/internal/observability"
	"llm-chat-service/internal/rabbitmq"
	"llm-chat-service/internal/repositories"
	"llm-chat-service/internal/telemetry"
)

const serviceName = "llm-chat-service"

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	ctx := context.Background()
	shutdownTracing, err := telemetry.InitTracing(ctx, serviceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init tracing")
	}
	defer shutdownTracing(ctx)

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange)
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, serviceName, cfg.Environment)

	roomRepo := repositories.NewRoomRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	partRepo := repositories.NewPartRepo(database)

	sessions := auth.NewHTTPSessionClient(cfg.AuthBaseURL)
	registry := llm.NewRegistry(cfg.ProviderKeys)

	chatHandler := handlers.NewChatHandler(roomRepo, messageRepo, partRepo, registry, audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	requireSession := middleware.RequireSession(sessions)

	router.POST("/chat", requireSession, chatHandler.CreateRoom)
	router.POST("/chat/:room_id", requireSession, chatHandler.StreamChat)
	router.GET("/chat/:room_id", requireSession, chatHandler.GetHistory)
	router.GET("/chat/:room_id/messages/:message_id/parts", requireSession, chatHandler.GetMessageParts)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	log.Info().Str("port", cfg.Port).Msg("chat service listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func setupLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Str("service", serviceName).Logger()
}
