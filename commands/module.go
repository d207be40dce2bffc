package commands

import (
	"sort"

	"github.com/bwmarrin/discordgo"

	"HelperBot/bot"
)

// InteractionFunc handles a slash command or autocomplete interaction.
type InteractionFunc func(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate)

// ComponentFunc handles a press on a component whose custom id names the
// view and action.
type ComponentFunc func(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, viewID, action string)

// SlashCommandInfo holds information about slash commands
type SlashCommandInfo struct {
	Name         string                                `json:"name"`
	Description  string                                `json:"description"`
	Options      []*discordgo.ApplicationCommandOption `json:"options"`
	Handler      InteractionFunc                       `json:"-"`
	Autocomplete InteractionFunc                       `json:"-"`
}

// ModuleInfo represents a complete module with its commands and metadata
type ModuleInfo struct {
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	Category      string                   `json:"category"`
	SlashCommands []SlashCommandInfo       `json:"slash_commands"`
	Components    map[string]ComponentFunc `json:"-"` // keyed by view kind
}

// Global registries
var (
	RegisteredModules    = make(map[string]*ModuleInfo)
	SlashCommandHandlers = make(map[string]InteractionFunc) // Auto-compiled slash handlers
	AutocompleteHandlers = make(map[string]InteractionFunc)
	ComponentHandlers    = make(map[string]ComponentFunc)
)

// RegisterModule registers a complete module and auto-compiles its handlers
func RegisterModule(module *ModuleInfo) {
	RegisteredModules[module.Name] = module

	for _, slashCmd := range module.SlashCommands {
		SlashCommandHandlers[slashCmd.Name] = slashCmd.Handler
		if slashCmd.Autocomplete != nil {
			AutocompleteHandlers[slashCmd.Name] = slashCmd.Autocomplete
		}
	}
	for kind, handler := range module.Components {
		ComponentHandlers[kind] = handler
	}
}

// GetAllModules returns all registered modules sorted by name
func GetAllModules() []*ModuleInfo {
	modules := make([]*ModuleInfo, 0, len(RegisteredModules))
	for _, module := range RegisteredModules {
		modules = append(modules, module)
	}
	sort.Slice(modules, func(i, j int) bool {
		return modules[i].Name < modules[j].Name
	})
	return modules
}

// GetAllSlashCommands returns all registered slash commands for registration
func GetAllSlashCommands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, module := range GetAllModules() {
		for _, slashCmd := range module.SlashCommands {
			commands = append(commands, &discordgo.ApplicationCommand{
				Name:        slashCmd.Name,
				Description: slashCmd.Description,
				Options:     slashCmd.Options,
			})
		}
	}
	return commands
}
