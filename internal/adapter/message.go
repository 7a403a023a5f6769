package adapter

import (
	"strconv"
	"strings"

	"github.com/pulselabs/community-pulse-go/internal/constants"
	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/relay"
	"github.com/pulselabs/community-pulse-go/internal/util"
)

// MessageAdapter converts relay message events to bot commands
type MessageAdapter struct {
	prefix string
}

// NewMessageAdapter creates a new MessageAdapter
func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand represents a parsed command
type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
}

// ParseMessage parses a relay message event into a command. Messages
// without the command prefix come back as CommandUnknown and are only
// recorded as activity.
func (ma *MessageAdapter) ParseMessage(event *relay.Event) *ParsedCommand {
	if event == nil || event.Text == "" {
		return ma.createUnknownCommand("")
	}

	text := strings.TrimSpace(event.Text)

	if !strings.HasPrefix(text, ma.prefix) {
		return ma.createUnknownCommand(text)
	}

	commandText := strings.TrimSpace(text[len(ma.prefix):])

	parts := strings.Fields(commandText)
	if len(parts) == 0 {
		return ma.createUnknownCommand(text)
	}

	command := util.Normalize(parts[0])
	args := parts[1:]

	if ma.isPulseCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandPulse,
			Params:     ma.parseDaysArg(args, constants.DefaultPulseDays),
			RawMessage: text,
		}
	}

	if ma.isHealthCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandHealth,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	if ma.isChannelsCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandChannels,
			Params:     ma.parseDaysArg(args, constants.DefaultChannelDays),
			RawMessage: text,
		}
	}

	if ma.isContributorsCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandContributors,
			Params:     ma.parseDaysArg(args, constants.DefaultContributorDays),
			RawMessage: text,
		}
	}

	if ma.isRisingCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandRising,
			Params:     ma.parseDaysArg(args, constants.DefaultRisingStarDays),
			RawMessage: text,
		}
	}

	if ma.isSuggestCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandSuggest,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	if ma.isHelpCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandHelp,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	return ma.createUnknownCommand(text)
}

// Command matchers

func (ma *MessageAdapter) isPulseCommand(cmd string) bool {
	return util.Contains([]string{"pulse", "activity"}, cmd)
}

func (ma *MessageAdapter) isHealthCommand(cmd string) bool {
	return util.Contains([]string{"health", "score"}, cmd)
}

func (ma *MessageAdapter) isChannelsCommand(cmd string) bool {
	return util.Contains([]string{"channels", "channel"}, cmd)
}

func (ma *MessageAdapter) isContributorsCommand(cmd string) bool {
	return util.Contains([]string{"contributors", "top"}, cmd)
}

func (ma *MessageAdapter) isRisingCommand(cmd string) bool {
	return util.Contains([]string{"rising", "stars"}, cmd)
}

func (ma *MessageAdapter) isSuggestCommand(cmd string) bool {
	return util.Contains([]string{"suggest", "suggestions", "tips"}, cmd)
}

func (ma *MessageAdapter) isHelpCommand(cmd string) bool {
	return util.Contains([]string{"help", "commands"}, cmd)
}

// Argument parsers

func (ma *MessageAdapter) parseDaysArg(args []string, defaultDays int) map[string]any {
	days := defaultDays

	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			days = util.ClampInt(d, 1, constants.MaxWindowDays)
		}
	}

	return map[string]any{"days": days}
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     make(map[string]any),
		RawMessage: text,
	}
}
