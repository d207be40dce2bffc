package commands

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// commandNeedsUpdate checks if an existing command needs to be updated
func commandNeedsUpdate(existing, desired *discordgo.ApplicationCommand) bool {
	if existing.Name != desired.Name {
		return true
	}
	if existing.Description != desired.Description {
		return true
	}
	return optionsDiffer(existing.Options, desired.Options)
}

func optionsDiffer(existing, desired []*discordgo.ApplicationCommandOption) bool {
	if len(existing) != len(desired) {
		return true
	}
	for i, option := range existing {
		want := desired[i]
		if option.Name != want.Name ||
			option.Description != want.Description ||
			option.Type != want.Type ||
			option.Required != want.Required ||
			option.Autocomplete != want.Autocomplete {
			return true
		}
		if optionsDiffer(option.Options, want.Options) {
			return true
		}
	}
	return false
}

// RegisterAllSlashCommands registers and updates slash commands from all
// modules. An empty guildID registers them globally.
func RegisterAllSlashCommands(s *discordgo.Session, guildID string) {
	appID := s.State.User.ID
	logger := slog.Default().With("guild_id", guildID)

	existingCommands, err := s.ApplicationCommands(appID, guildID)
	if err != nil {
		logger.Error("failed to fetch existing commands", "error", err)
		return
	}

	existingMap := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existingCommands {
		existingMap[cmd.Name] = cmd
	}

	for _, desired := range GetAllSlashCommands() {
		if existing, exists := existingMap[desired.Name]; exists {
			if commandNeedsUpdate(existing, desired) {
				logger.Info("updating slash command", "command", desired.Name)
				if _, err := s.ApplicationCommandEdit(appID, guildID, existing.ID, desired); err != nil {
					logger.Error("failed to update command", "command", desired.Name, "error", err)
				}
			}
			// Still wanted
			delete(existingMap, desired.Name)
			continue
		}

		logger.Info("creating slash command", "command", desired.Name)
		if _, err := s.ApplicationCommandCreate(appID, guildID, desired); err != nil {
			logger.Error("failed to create command", "command", desired.Name, "error", err)
		}
	}

	for _, cmd := range existingMap {
		logger.Info("deleting unused slash command", "command", cmd.Name)
		if err := s.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("failed to delete command", "command", cmd.Name, "error", err)
		}
	}
}
