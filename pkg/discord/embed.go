package discord

import (
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

const (
	colorAdmitted = 0x57F287
	colorRepeat   = 0xFEE75C
	colorRejected = 0xED4245
	colorInfo     = 0x5865F2
)

// BuildCheckInEmbed renders a gate verdict for the operator.
func BuildCheckInEmbed(t output.T, locale string, res entities.CheckIn, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: t.T(locale, "scan."+string(res.Verdict), map[string]any{"Name": res.GuestName}),
		Color: verdictColor(res.Verdict),
	}
	if !res.AttendedAt.IsZero() {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: t.T(locale, "export.attended_at", nil) + ": " + FormatEventDateTime(res.AttendedAt, loc),
		}
	}
	return embed
}

func verdictColor(v entities.Verdict) int {
	switch v {
	case entities.VerdictAdmitted:
		return colorAdmitted
	case entities.VerdictAlreadyCheckedIn:
		return colorRepeat
	default:
		return colorRejected
	}
}

// BuildStatsEmbed lays out an event's counters as inline fields.
func BuildStatsEmbed(t output.T, locale string, event *entities.Event, stats entities.Stats, loc *time.Location) *discordgo.MessageEmbed {
	field := func(key string, n int) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: t.T(locale, key, nil), Value: strconv.Itoa(n), Inline: true}
	}
	return &discordgo.MessageEmbed{
		Title:       t.T(locale, "stats.title", map[string]any{"Event": event.Name}),
		Description: FormatEventDateTime(event.Date, loc) + "\n" + event.Location,
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			field("stats.guests", stats.Guests),
			field("stats.confirmed", stats.Confirmed),
			field("stats.pending", stats.Pending),
			field("stats.declined", stats.Declined),
			field("stats.confirmed_passes", stats.ConfirmedPasses),
			field("stats.pending_passes", stats.PendingPasses),
			field("stats.total_passes", stats.TotalPasses),
			field("stats.attended", stats.Attended),
		},
	}
}
