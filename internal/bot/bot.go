package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/pulselabs/community-pulse-go/internal/adapter"
	"github.com/pulselabs/community-pulse-go/internal/command"
	"github.com/pulselabs/community-pulse-go/internal/config"
	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/relay"
	"github.com/pulselabs/community-pulse-go/internal/service/stats"
	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"go.uber.org/zap"
)

// Dependencies carries everything the bot needs at runtime. The app
// container assembles these; the bot only orchestrates.
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	RelayClient    *relay.Client
	RelayWebSocket *relay.WebSocket
	MessageAdapter *adapter.MessageAdapter
	Dispatcher     command.Dispatcher
	StatsRepo      *stats.Repository
	Aggregator     *stats.Aggregator
}

// Bot ties the relay event stream to the stats recorder and the
// command dispatcher.
type Bot struct {
	deps        *Dependencies
	unsubscribe func()
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, errors.NewBotError("dependencies must not be nil", errors.CodeBotError, 500, nil)
	}
	if deps.Config == nil || deps.Logger == nil {
		return nil, errors.NewBotError("config and logger are required", errors.CodeBotError, 500, nil)
	}
	if deps.RelayWebSocket == nil || deps.RelayClient == nil {
		return nil, errors.NewBotError("relay client and websocket are required", errors.CodeBotError, 500, nil)
	}
	if deps.MessageAdapter == nil || deps.Dispatcher == nil || deps.StatsRepo == nil {
		return nil, errors.NewBotError("message adapter, dispatcher and stats repository are required", errors.CodeBotError, 500, nil)
	}
	return &Bot{deps: deps}, nil
}

// Start connects to the relay and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	schemaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err := b.deps.StatsRepo.EnsureSchema(schemaCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to prepare stats schema: %w", err)
	}

	if b.deps.Aggregator != nil {
		b.deps.Aggregator.Start(ctx)
	}

	b.unsubscribe = b.deps.RelayWebSocket.OnEvent(func(event *relay.Event) {
		go b.handleEvent(ctx, event)
	})

	if err := b.deps.RelayWebSocket.Connect(ctx); err != nil {
		// Connect schedules its own reconnects; a failed first dial is
		// not fatal as long as the retry budget remains.
		b.deps.Logger.Warn("Initial relay connection failed, retrying in background", zap.Error(err))
	}

	b.deps.Logger.Info("Community Pulse bot running",
		zap.String("prefix", b.deps.Config.Bot.Prefix))

	<-ctx.Done()
	return nil
}

// Shutdown stops background work and closes the relay connection.
func (b *Bot) Shutdown(_ context.Context) error {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	if b.deps.Aggregator != nil {
		b.deps.Aggregator.Stop()
	}
	return b.deps.RelayWebSocket.Disconnect()
}

func (b *Bot) handleEvent(ctx context.Context, event *relay.Event) {
	if event == nil || event.CommunityID == "" {
		return
	}
	if b.deps.Config.Bot.UserID != "" && event.UserID == b.deps.Config.Bot.UserID {
		return
	}

	recordCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	createdAt := parseEventTime(event.CreatedAt)

	switch event.Type {
	case relay.EventJoin:
		if err := b.deps.StatsRepo.RecordJoin(recordCtx, event.CommunityID, event.UserID, createdAt); err != nil {
			b.deps.Logger.Error("Failed to record join", zap.Error(err))
		}
		return

	case relay.EventLeave:
		if err := b.deps.StatsRepo.RecordLeave(recordCtx, event.CommunityID, event.UserID, createdAt); err != nil {
			b.deps.Logger.Error("Failed to record leave", zap.Error(err))
		}
		return

	case relay.EventMessage:
		if event.ChannelID == "" || event.UserID == "" {
			return
		}
		if err := b.deps.StatsRepo.RecordMessage(recordCtx, event.CommunityID, event.ChannelID, event.UserID, createdAt); err != nil {
			b.deps.Logger.Error("Failed to record message", zap.Error(err))
		}
		b.maybeDispatchCommand(ctx, event)

	default:
		b.deps.Logger.Debug("Ignoring unknown event type", zap.String("type", event.Type))
	}
}

func (b *Bot) maybeDispatchCommand(ctx context.Context, event *relay.Event) {
	parsed := b.deps.MessageAdapter.ParseMessage(event)
	if parsed.Type == domain.CommandUnknown {
		return
	}

	cmdCtx := domain.NewCommandContext(event.CommunityID, event.ChannelID, event.Sender, event.Text)

	dispatchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := b.deps.Dispatcher.Publish(dispatchCtx, cmdCtx, command.CommandEvent{
		Type:   parsed.Type,
		Params: parsed.Params,
	}); err != nil {
		b.deps.Logger.Error("Command dispatch failed",
			zap.String("command", parsed.Type.String()),
			zap.Error(err))
	}
}

func parseEventTime(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	return time.Now().UTC()
}
