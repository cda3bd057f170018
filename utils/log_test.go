package utils

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type embedSink struct {
	embeds []*discordgo.MessageEmbed
	err    error
}

func (e *embedSink) ChannelMessageSendEmbed(_ string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.embeds = append(e.embeds, embed)
	return &discordgo.Message{}, nil
}

func TestLogToChannel(t *testing.T) {
	sink := &embedSink{}
	if err := LogToChannel(sink, "", Info, "System", "Startup", "ok"); err != nil || len(sink.embeds) != 0 {
		t.Fatal("an empty channel id disables channel logging")
	}

	if err := LogToChannel(sink, "42", Warn, "Moderation", "Purge", "stopped"); err != nil {
		t.Fatalf("LogToChannel: %v", err)
	}
	embed := sink.embeds[0]
	if embed.Title != "WARN Log" || embed.Color != getColor(Warn) || embed.Fields[1].Value != "Purge" {
		t.Fatalf("unexpected embed %+v", embed)
	}

	sink.err = errors.New("missing access")
	if err := LogToChannel(sink, "42", Error, "System", "Startup", "x"); err == nil {
		t.Fatal("send failures are returned")
	}
	LogError(sink, "42", "System", "Startup", "x")
}
