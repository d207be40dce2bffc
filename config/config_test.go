package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
guilds:
  "111":
    recurring:
      - channel: general
        time: R/2026-01-05T09:00:00Z/P1W
        message: Weekly standup!
      - channel: "222"
        time: "0 9 * * 1-5"
        message: Morning
    rolesets:
      colours:
        type: exclusive
        roles: [Red, Blue]
      pings:
        type: toggle
        roles: [Events]
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_GuildSettings(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", sample))
	require.NoError(t, err)

	g := cfg.Guild("111")
	require.Len(t, g.Recurring, 2)
	assert.Equal(t, Recurring{Channel: "general", Time: "R/2026-01-05T09:00:00Z/P1W", Message: "Weekly standup!"}, g.Recurring[0])
	assert.Equal(t, "222", g.Recurring[1].Channel)

	require.Contains(t, g.RoleSets, "colours")
	assert.Equal(t, Exclusive, g.RoleSets["colours"].Type)
	assert.Equal(t, []string{"Red", "Blue"}, g.RoleSets["colours"].Roles)
	assert.Equal(t, Toggle, g.RoleSets["pings"].Type)

	assert.Empty(t, cfg.Guild("999").RoleSets)
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDriver, cfg.DatabaseDriver)
	assert.Equal(t, DefaultDatabase, cfg.DatabaseURL)
	assert.Equal(t, DefaultBotName, cfg.BotName)
	assert.NotNil(t, cfg.Guilds)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "secret")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("GUILD_ID", "111")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeFile(t, "config.yaml", "bot_name: fromfile\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://localhost/bot", cfg.DatabaseURL)
	assert.Equal(t, "111", cfg.GuildID)
	assert.Equal(t, "fromfile", cfg.BotName)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_RejectsBadRoleSetType(t *testing.T) {
	body := `
guilds:
  "1":
    rolesets:
      colours:
        type: random
        roles: [Red]
`
	_, err := Load(writeFile(t, "config.yaml", body))
	assert.ErrorContains(t, err, "unknown type")
}

func TestLoad_RejectsBadRecurrence(t *testing.T) {
	body := `
guilds:
  "1":
    recurring:
      - channel: general
        time: every so often
        message: hi
`
	_, err := Load(writeFile(t, "config.yaml", body))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeFile(t, "config.yaml", "guilds: [unclosed"))
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, ".env", "HELPERBOT_TEST_VALUE=from-dotenv\n")
	t.Setenv("HELPERBOT_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("HELPERBOT_TEST_VALUE"))

	require.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "absent.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv("HELPERBOT_TEST_VALUE"))
}
