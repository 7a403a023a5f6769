package app

import (
	"context"
	"fmt"

	"github.com/pulselabs/community-pulse-go/internal/adapter"
	"github.com/pulselabs/community-pulse-go/internal/analytics"
	"github.com/pulselabs/community-pulse-go/internal/bot"
	"github.com/pulselabs/community-pulse-go/internal/command"
	"github.com/pulselabs/community-pulse-go/internal/config"
	"github.com/pulselabs/community-pulse-go/internal/constants"
	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/relay"
	"github.com/pulselabs/community-pulse-go/internal/service/cache"
	"github.com/pulselabs/community-pulse-go/internal/service/database"
	"github.com/pulselabs/community-pulse-go/internal/service/stats"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like Bot.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	botDeps *bot.Dependencies
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Build assembles all infrastructure services and returns a container capable
// of creating fully-wired bots. All heavy-weight initialization (DB/cache)
// is performed here so that bot.NewBot stays focused on orchestration logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Messaging primitives
	relayClient := relay.NewClient(cfg.Relay.BaseURL, logger)
	relayWS := relay.NewWebSocket(cfg.Relay.WSURL,
		constants.WebSocketConfig.MaxReconnectAttempts,
		constants.WebSocketConfig.ReconnectDelay,
		logger)
	messageAdapter := adapter.NewMessageAdapter(cfg.Bot.Prefix)
	formatter := adapter.NewResponseFormatter(cfg.Bot.Prefix)

	// Cache and database
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:         cfg.Postgres.Host,
		Port:         cfg.Postgres.Port,
		User:         cfg.Postgres.User,
		Password:     cfg.Postgres.Password,
		Database:     cfg.Postgres.Database,
		SSLMode:      cfg.Postgres.SSLMode,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	// Stats storage and analyzers
	statsRepo := stats.NewRepository(postgresSvc, logger)
	aggregator := stats.NewAggregator(statsRepo, cacheSvc, cfg.Reports.AggregateInterval, logger)

	healthAnalyzer := analytics.NewHealthAnalyzer(statsRepo, logger)
	channelAnalyzer := analytics.NewChannelAnalyzer(statsRepo, logger)
	contributorAnalyzer := analytics.NewContributorAnalyzer(statsRepo, logger)
	suggestionEngine := analytics.NewSuggestionEngine(statsRepo, logger)

	// Command layer
	cacheTTL := cfg.Reports.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = constants.CacheTTL.Report
	}

	cmdDeps := &command.Dependencies{
		Health:       healthAnalyzer,
		Channels:     channelAnalyzer,
		Contributors: contributorAnalyzer,
		Suggestions:  suggestionEngine,
		Cache:        cacheSvc,
		CacheTTL:     cacheTTL,
		Formatter:    formatter,
		SendMessage: func(communityID, channelID, message string) error {
			return relayClient.SendMessage(context.Background(), communityID, channelID, message)
		},
		SendError: func(communityID, channelID, message string) error {
			return relayClient.SendMessage(context.Background(), communityID, channelID, formatter.FormatError(message))
		},
		Logger: logger,
	}

	registry := command.NewRegistry()
	registry.Register(command.NewPulseCommand(cmdDeps))
	registry.Register(command.NewHealthCommand(cmdDeps))
	registry.Register(command.NewChannelsCommand(cmdDeps))
	registry.Register(command.NewContributorsCommand(cmdDeps))
	registry.Register(command.NewRisingCommand(cmdDeps))
	registry.Register(command.NewSuggestCommand(cmdDeps))
	registry.Register(command.NewHelpCommand(cmdDeps))

	dispatcher := command.NewSequentialDispatcher(registry, func(t domain.CommandType, params map[string]any) (string, map[string]any) {
		return t.String(), params
	})

	logger.Info("Command handlers registered", zap.Int("count", registry.Count()))

	deps := &bot.Dependencies{
		Config:         cfg,
		Logger:         logger,
		RelayClient:    relayClient,
		RelayWebSocket: relayWS,
		MessageAdapter: messageAdapter,
		Dispatcher:     dispatcher,
		StatsRepo:      statsRepo,
		Aggregator:     aggregator,
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		botDeps: deps,
	}, nil
}
