// Package discord is an operator console for the door: staff check guests
// in and follow attendance from a Discord guild.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	guildID string
	handler *Handler
	log     zerolog.Logger
}

// NewBot creates a Bot that dispatches slash commands to handler. Commands
// are registered in guildID, or globally when it is empty.
func NewBot(token, guildID string, handler *Handler, log zerolog.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	bot := &Bot{
		session: s,
		guildID: guildID,
		handler: handler,
		log:     log,
	}
	s.AddHandler(bot.handleInteraction)
	return bot, nil
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	switch data.Name {
	case commandCheckIn:
		b.handler.HandleCheckIn(s, i)
	case commandStats:
		b.handler.HandleStats(s, i)
	default:
		b.log.Warn().Str("command", data.Name).Msg("unknown command")
	}
}

// Start runs the bot until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range Commands() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, cmd); err != nil {
			b.log.Error().Err(err).Str("command", cmd.Name).Msg("register command")
		}
	}

	b.log.Info().Str("user", b.session.State.User.Username).Msg("bot online")
	<-ctx.Done()
	return nil
}
