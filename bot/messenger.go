package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// Messenger sends plain text through a Discord session.
type Messenger struct {
	Session *discordgo.Session
}

// SendDirect opens (or reuses) the DM channel with userID and posts content.
func (m *Messenger) SendDirect(ctx context.Context, userID, content string) error {
	channel, err := m.Session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "failed to open DM channel with %s", userID)
	}
	return m.SendChannel(ctx, channel.ID, content)
}

func (m *Messenger) SendChannel(ctx context.Context, channelID, content string) error {
	if _, err := m.Session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return errors.Wrapf(err, "failed to send message to channel %s", channelID)
	}
	return nil
}
