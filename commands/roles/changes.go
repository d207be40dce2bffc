package roles

import (
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"HelperBot/config"
	"HelperBot/utils"
)

// Changes is the set of roles a request adds to and removes from a member.
type Changes struct {
	Add    []*discordgo.Role
	Remove []*discordgo.Role
}

func (c Changes) Empty() bool {
	return len(c.Add) == 0 && len(c.Remove) == 0
}

// String lists removals, then additions, one line each.
func (c Changes) String() string {
	var lines []string
	for _, r := range c.Remove {
		lines = append(lines, r.Name+" will be removed.")
	}
	for _, r := range c.Add {
		lines = append(lines, r.Name+" will be added.")
	}
	return strings.Join(lines, "\n")
}

// Available maps every self-assignable role that exists in the guild to the
// name of its roleset.
func Available(sets map[string]config.RoleSet, guildRoles []*discordgo.Role) map[string]string {
	exists := make(map[string]bool, len(guildRoles))
	for _, r := range guildRoles {
		exists[r.Name] = true
	}

	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	available := make(map[string]string)
	for _, setName := range names {
		for _, role := range sets[setName].Roles {
			if exists[role] {
				available[role] = setName
			}
		}
	}
	return available
}

// Matching returns the available role names starting with prefix,
// case-insensitively, in alphabetical order.
func Matching(available map[string]string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var matches []string
	for name := range available {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// Compute works out what requesting target means for member. Toggle sets
// flip the target; exclusive sets grant the target and take away every other
// role of the set.
func Compute(set config.RoleSet, target *discordgo.Role, member *discordgo.Member, guildRoles []*discordgo.Role) Changes {
	var c Changes
	if set.Type == config.Toggle {
		if utils.HasRole(member, target.ID) {
			c.Remove = append(c.Remove, target)
		} else {
			c.Add = append(c.Add, target)
		}
		return c
	}

	if !utils.HasRole(member, target.ID) {
		c.Add = append(c.Add, target)
	}
	members := make(map[string]bool, len(set.Roles))
	for _, name := range set.Roles {
		members[name] = true
	}
	for _, r := range guildRoles {
		if r.ID != target.ID && members[r.Name] && utils.HasRole(member, r.ID) {
			c.Remove = append(c.Remove, r)
		}
	}
	return c
}
