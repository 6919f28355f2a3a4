package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"invitapp/internal/ports/input"
	"invitapp/internal/ports/output"
	pkgdiscord "invitapp/pkg/discord"
)

const commandTimeout = 10 * time.Second

// Handler handles Discord interactions using use cases.
type Handler struct {
	checkIn input.CheckInUseCase
	stats   input.StatsUseCase
	events  input.EventUseCase
	t       output.T
	loc     *time.Location
	log     zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	checkIn input.CheckInUseCase,
	stats input.StatsUseCase,
	events input.EventUseCase,
	t output.T,
	loc *time.Location,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		checkIn: checkIn,
		stats:   stats,
		events:  events,
		t:       t,
		loc:     loc,
		log:     log,
	}
}

func (h *Handler) HandleCheckIn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := stringOptions(i.ApplicationCommandData().Options)
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	embed, err := h.checkInReply(ctx, string(i.Locale), opts[optionEvent], opts[optionCode])
	if err != nil {
		respondEphemeral(s, i.Interaction, err.Error())
		return
	}
	respondEmbed(s, i.Interaction, embed)
}

func (h *Handler) HandleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := stringOptions(i.ApplicationCommandData().Options)
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	embed, err := h.statsReply(ctx, string(i.Locale), opts[optionEvent])
	if err != nil {
		respondEphemeral(s, i.Interaction, err.Error())
		return
	}
	respondEmbed(s, i.Interaction, embed)
}

// replyError carries the text shown to the operator for a failed command.
type replyError string

func (e replyError) Error() string { return string(e) }

func (h *Handler) checkInReply(ctx context.Context, locale, eventID, code string) (*discordgo.MessageEmbed, error) {
	eventID = strings.TrimSpace(eventID)
	res, err := h.checkIn.CheckIn(ctx, code, eventID)
	if err != nil {
		h.log.Error().Err(err).Str("event_id", eventID).Msg("check-in failed")
		return nil, replyError(h.t.T(locale, "scan.failed", nil) + " " + h.t.T(locale, "scan.retry", nil))
	}
	h.log.Info().
		Str("event_id", eventID).
		Str("guest_id", res.GuestID).
		Str("verdict", string(res.Verdict)).
		Msg("check-in")
	return pkgdiscord.BuildCheckInEmbed(h.t, locale, res, h.loc), nil
}

func (h *Handler) statsReply(ctx context.Context, locale, eventID string) (*discordgo.MessageEmbed, error) {
	eventID = strings.TrimSpace(eventID)
	event, err := h.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, replyError(pkgdiscord.DomainErrorMessage(h.t, locale, err))
	}
	stats, err := h.stats.EventStats(ctx, eventID)
	if err != nil {
		h.log.Error().Err(err).Str("event_id", eventID).Msg("stats failed")
		return nil, replyError(pkgdiscord.DomainErrorMessage(h.t, locale, err))
	}
	return pkgdiscord.BuildStatsEmbed(h.t, locale, event, stats, h.loc), nil
}
