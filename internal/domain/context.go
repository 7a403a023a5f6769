package domain

import "time"

// CommandContext carries where a command came from and who issued it.
// CommunityID scopes every stats query triggered by the command.
type CommandContext struct {
	CommunityID string
	ChannelID   string
	Sender      string
	Message     string
	Timestamp   time.Time
}

func NewCommandContext(communityID, channelID, sender, message string) *CommandContext {
	return &CommandContext{
		CommunityID: communityID,
		ChannelID:   channelID,
		Sender:      sender,
		Message:     message,
		Timestamp:   time.Now(),
	}
}
