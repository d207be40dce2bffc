package roles

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"HelperBot/config"
)

var (
	red    = &discordgo.Role{ID: "1", Name: "Red"}
	blue   = &discordgo.Role{ID: "2", Name: "Blue"}
	events = &discordgo.Role{ID: "3", Name: "Events"}
	admin  = &discordgo.Role{ID: "4", Name: "Admin"}

	guildRoles = []*discordgo.Role{red, blue, events, admin}

	colours = config.RoleSet{Type: config.Exclusive, Roles: []string{"Red", "Blue", "Green"}}
	pings   = config.RoleSet{Type: config.Toggle, Roles: []string{"Events"}}
)

func TestCompute_ToggleAddsWhenMissing(t *testing.T) {
	c := Compute(pings, events, &discordgo.Member{Roles: []string{"4"}}, guildRoles)
	assert.Equal(t, []*discordgo.Role{events}, c.Add)
	assert.Empty(t, c.Remove)
	assert.Equal(t, "Events will be added.", c.String())
}

func TestCompute_ToggleRemovesWhenHeld(t *testing.T) {
	c := Compute(pings, events, &discordgo.Member{Roles: []string{"3"}}, guildRoles)
	assert.Empty(t, c.Add)
	assert.Equal(t, []*discordgo.Role{events}, c.Remove)
	assert.Equal(t, "Events will be removed.", c.String())
}

func TestCompute_ExclusiveSwapsWithinSet(t *testing.T) {
	c := Compute(colours, blue, &discordgo.Member{Roles: []string{"1", "3", "4"}}, guildRoles)
	assert.Equal(t, []*discordgo.Role{blue}, c.Add)
	assert.Equal(t, []*discordgo.Role{red}, c.Remove, "roles outside the set are untouched")
	assert.Equal(t, "Red will be removed.\nBlue will be added.", c.String())
}

func TestCompute_ExclusiveAlreadyHeld(t *testing.T) {
	c := Compute(colours, red, &discordgo.Member{Roles: []string{"1"}}, guildRoles)
	assert.True(t, c.Empty())
}

func TestCompute_ExclusiveFromNothing(t *testing.T) {
	c := Compute(colours, red, nil, guildRoles)
	assert.Equal(t, []*discordgo.Role{red}, c.Add)
	assert.Empty(t, c.Remove)
}

func TestAvailable_OnlyExistingRoles(t *testing.T) {
	got := Available(map[string]config.RoleSet{"colours": colours, "pings": pings}, guildRoles)
	assert.Equal(t, map[string]string{"Red": "colours", "Blue": "colours", "Events": "pings"}, got)
}

func TestMatching(t *testing.T) {
	available := map[string]string{"Red": "colours", "Blue": "colours", "Events": "pings", "Rebels": "teams"}
	assert.Equal(t, []string{"Rebels", "Red"}, Matching(available, "re"))
	assert.Equal(t, []string{"Blue", "Events", "Rebels", "Red"}, Matching(available, ""))
	assert.Empty(t, Matching(available, "z"))
}
