package discord

import (
	"github.com/bwmarrin/discordgo"
)

const (
	commandCheckIn = "checkin"
	commandStats   = "stats"

	optionEvent = "evento"
	optionCode  = "codigo"
)

// Only members who can manage guild events see the console commands.
var operatorPermission int64 = discordgo.PermissionManageEvents

// Commands returns the slash commands the console registers.
func Commands() []*discordgo.ApplicationCommand {
	eventOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionEvent,
		Description: "ID del evento",
		Required:    true,
	}
	return []*discordgo.ApplicationCommand{
		{
			Name:                     commandCheckIn,
			Description:              "Registrar la entrada de un invitado",
			DefaultMemberPermissions: &operatorPermission,
			Options: []*discordgo.ApplicationCommandOption{
				eventOption,
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionCode,
					Description: "Texto del código QR o ID del invitado",
					Required:    true,
				},
			},
		},
		{
			Name:                     commandStats,
			Description:              "Ver el resumen de asistencia de un evento",
			DefaultMemberPermissions: &operatorPermission,
			Options:                  []*discordgo.ApplicationCommandOption{eventOption},
		},
	}
}

// stringOptions flattens the interaction options into name -> value.
func stringOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	out := make(map[string]string, len(opts))
	for _, opt := range opts {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			out[opt.Name] = opt.StringValue()
		}
	}
	return out
}
