package utils

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ExtractChannelID strips a <#id> channel mention down to the id
func ExtractChannelID(input string) string {
	if strings.HasPrefix(input, "<#") && strings.HasSuffix(input, ">") {
		return input[2 : len(input)-1]
	}
	return input
}

func ExtractRoleID(input string) string {
	if strings.HasPrefix(input, "<@&") && strings.HasSuffix(input, ">") {
		return input[3 : len(input)-1]
	}
	return input // Return as is for ID/name validation
}

// FindChannel finds a channel by id, mention or name (case-insensitive).
// Text channels win over other channel types sharing the name.
func FindChannel(channels []*discordgo.Channel, nameOrID string) *discordgo.Channel {
	cleaned := ExtractChannelID(strings.TrimSpace(nameOrID))

	// Check by ID first
	for _, ch := range channels {
		if ch.ID == cleaned {
			return ch
		}
	}

	cleaned = strings.TrimPrefix(strings.ToLower(cleaned), "#")
	var match *discordgo.Channel
	for _, ch := range channels {
		if strings.ToLower(ch.Name) != cleaned {
			continue
		}
		if ch.Type == discordgo.ChannelTypeGuildText {
			return ch
		}
		if match == nil {
			match = ch
		}
	}
	return match
}

// FindRoleByName finds a role by id, mention or name (case-insensitive)
func FindRoleByName(roles []*discordgo.Role, name string) *discordgo.Role {
	cleaned := ExtractRoleID(strings.TrimSpace(name))
	for _, role := range roles {
		if role.ID == cleaned {
			return role
		}
	}
	for _, role := range roles {
		if strings.EqualFold(role.Name, cleaned) {
			return role
		}
	}
	return nil
}

// HasRole reports whether the member holds roleID
func HasRole(member *discordgo.Member, roleID string) bool {
	if member == nil {
		return false
	}
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// InteractionUser returns the user behind an interaction, in a guild or a DM
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// RespondEphemeral answers an interaction with a message only the caller sees
func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return RespondEphemeralComponents(s, i, content, nil)
}

func RespondEphemeralComponents(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

// OptionMap indexes slash command options by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
