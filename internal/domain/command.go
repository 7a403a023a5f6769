package domain

// CommandType identifies a report command.
type CommandType string

const (
	CommandPulse        CommandType = "pulse"
	CommandHealth       CommandType = "health"
	CommandChannels     CommandType = "channels"
	CommandContributors CommandType = "contributors"
	CommandRising       CommandType = "rising"
	CommandSuggest      CommandType = "suggest"
	CommandHelp         CommandType = "help"
	CommandUnknown      CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandPulse, CommandHealth, CommandChannels, CommandContributors,
		CommandRising, CommandSuggest, CommandHelp, CommandUnknown:
		return true
	default:
		return false
	}
}
