package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// MaxMessageLength is Discord's limit for a single message body.
const MaxMessageLength = 2000

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Publisher posts reports to one channel over the REST API. It never opens
// a gateway connection.
type Publisher struct {
	session   messageSender
	channelID string
}

func NewPublisher(token, channelID string) (*Publisher, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &Publisher{session: session, channelID: channelID}, nil
}

// Publish sends content, cut to MaxMessageLength runes.
func (p *Publisher) Publish(content string) error {
	if content == "" {
		return errors.New("no message content provided")
	}
	if r := []rune(content); len(r) > MaxMessageLength {
		content = string(r[:MaxMessageLength-1]) + "…"
	}
	if _, err := p.session.ChannelMessageSend(p.channelID, content); err != nil {
		return fmt.Errorf("failed to post report to channel %s: %w", p.channelID, err)
	}
	return nil
}
