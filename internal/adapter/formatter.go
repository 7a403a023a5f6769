package adapter

import (
	"fmt"
	"strings"

	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/internal/util"
)

// ResponseFormatter renders analysis results as plain-text chat replies
type ResponseFormatter struct {
	prefix string
}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter(prefix string) *ResponseFormatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "!"
	}
	return &ResponseFormatter{prefix: prefix}
}

// FormatPulse formats the activity snapshot into a message
func (f *ResponseFormatter) FormatPulse(pulse *domain.PulseSummary) string {
	if pulse == nil || pulse.Degraded {
		return "❌ Activity data is temporarily unavailable. Try again in a few minutes."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Community Pulse (last %d days)\n\n", pulse.DaysAnalyzed))
	sb.WriteString(fmt.Sprintf("💬 Messages: %d\n", pulse.TotalMessages))
	sb.WriteString(fmt.Sprintf("👥 Active members: %d\n", pulse.ActiveMembers))
	sb.WriteString(fmt.Sprintf("%s Trend: %+.1f%% vs previous %d days\n", trendIcon(pulse.Trend), pulse.Trend, pulse.DaysAnalyzed))

	if len(pulse.PeakHours) > 0 {
		hours := make([]string, 0, len(pulse.PeakHours))
		for _, h := range pulse.PeakHours {
			hours = append(hours, util.FormatHourUTC(h))
		}
		sb.WriteString(fmt.Sprintf("⏰ Peak hours: %s\n", strings.Join(hours, ", ")))
	}

	if len(pulse.QuietChannels) > 0 {
		sb.WriteString(fmt.Sprintf("🤫 Quietest channels: %s\n", strings.Join(pulse.QuietChannels, ", ")))
	}

	if pulse.ConfidenceWarning != "" {
		sb.WriteString(fmt.Sprintf("\n⚠️ %s", pulse.ConfidenceWarning))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatHealth formats the health score breakdown into a message
func (f *ResponseFormatter) FormatHealth(score *domain.ScoreBreakdown) string {
	if score == nil {
		return "❌ Unable to calculate health score right now."
	}

	var sb strings.Builder

	if !score.Degraded {
		sb.WriteString(fmt.Sprintf("🏥 Community Health Score: %d/100\n\n", score.Overall))
		for _, name := range []string{domain.MetricActivity, domain.MetricGrowth, domain.MetricEngagement, domain.MetricChannelHealth} {
			if v, ok := score.Components[name]; ok {
				sb.WriteString(fmt.Sprintf("%s %s: %d/100\n", componentIcon(v), name, v))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(score.Summary)

	if len(score.Recommendations) > 0 {
		sb.WriteString("\n\nRecommendations:\n")
		for _, rec := range score.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatChannels formats the channel classification report
func (f *ResponseFormatter) FormatChannels(report *domain.ChannelReport, days int) string {
	if report == nil || report.Degraded {
		return "❌ Channel data is temporarily unavailable. Try again in a few minutes."
	}

	if len(report.Active) == 0 && len(report.Dead) == 0 && len(report.Declining) == 0 {
		return fmt.Sprintf("📺 No channel activity recorded in the last %d days.", days)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📺 Channel Report (last %d days)\n", days))

	if len(report.Active) > 0 {
		sb.WriteString(fmt.Sprintf("\n🟢 Active (%d)\n", len(report.Active)))
		for _, ch := range report.Active {
			sb.WriteString(fmt.Sprintf("• %s — %d messages, %d users, %.1f engagement\n",
				ch.ChannelID, ch.Messages, ch.UniqueUsers, ch.Engagement))
		}
	}

	if len(report.Declining) > 0 {
		sb.WriteString(fmt.Sprintf("\n🟠 Declining (%d)\n", len(report.Declining)))
		for _, ch := range report.Declining {
			sb.WriteString(fmt.Sprintf("• %s — %d messages, down %.0f%% vs community average\n",
				ch.ChannelID, ch.Messages, ch.DeclinePct))
		}
	}

	if len(report.Dead) > 0 {
		sb.WriteString(fmt.Sprintf("\n🔴 Dead (%d)\n", len(report.Dead)))
		for _, ch := range report.Dead {
			sb.WriteString(fmt.Sprintf("• %s — no messages in %d days\n", ch.ChannelID, ch.DaysInactive))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatContributors formats the top-contributors ranking
func (f *ResponseFormatter) FormatContributors(contributors []domain.ContributorScore, days int) string {
	if len(contributors) == 0 {
		return fmt.Sprintf("🏆 No contributor activity recorded in the last %d days.", days)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 Top Contributors (last %d days)\n\n", days))

	for i, c := range contributors {
		sb.WriteString(fmt.Sprintf("%s %s — %.1f points\n", rankIcon(i), c.UserID, c.Score))
		sb.WriteString(fmt.Sprintf("   %d messages · %d channels\n", c.Messages, c.ChannelsUsed))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatRisingStars formats the rising-stars report
func (f *ResponseFormatter) FormatRisingStars(stars []domain.RisingStar, days int) string {
	if len(stars) == 0 {
		return fmt.Sprintf("🌟 No rising stars found in the last %d days. Check back soon!", days)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🌟 Rising Stars (last %d days)\n\n", days))

	for _, star := range stars {
		icon := "⭐"
		if star.Potential == domain.PotentialHigh {
			icon = "🌟"
		}
		sb.WriteString(fmt.Sprintf("%s %s — %.1f messages/day across %d channels\n",
			icon, star.UserID, star.MessagesPerDay, star.ChannelsUsed))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatSuggestions formats the suggestion list
func (f *ResponseFormatter) FormatSuggestions(suggestions []domain.Suggestion) string {
	if len(suggestions) == 0 {
		return "💡 No suggestions right now."
	}

	var sb strings.Builder
	sb.WriteString("💡 Suggestions\n")

	for _, s := range suggestions {
		sb.WriteString(fmt.Sprintf("\n%s\n%s\n", s.Title, s.Description))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatHelp formats the command overview
func (f *ResponseFormatter) FormatHelp() string {
	var sb strings.Builder
	sb.WriteString("🤖 Community Pulse Commands\n\n")
	sb.WriteString(fmt.Sprintf("%spulse [days] — activity snapshot (default 7 days)\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%shealth — community health score with breakdown\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%schannels [days] — active, declining and dead channels\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%scontributors [days] — top contributors (default 30 days)\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%srising [days] — rising stars (default 14 days)\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%ssuggest — actionable improvement suggestions\n", f.prefix))
	sb.WriteString(fmt.Sprintf("%shelp — this message", f.prefix))
	return sb.String()
}

// FormatError formats a user-facing error message
func (f *ResponseFormatter) FormatError(message string) string {
	if message == "" {
		message = "Something went wrong. Please try again."
	}
	return "❌ " + message
}

func trendIcon(trend float64) string {
	switch {
	case trend > 0:
		return "📈"
	case trend < 0:
		return "📉"
	default:
		return "➡️"
	}
}

func componentIcon(score int) string {
	switch {
	case score >= 80:
		return "🟢"
	case score >= 60:
		return "🟡"
	case score >= 40:
		return "🟠"
	default:
		return "🔴"
	}
}

func rankIcon(index int) string {
	switch index {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", index+1)
	}
}
