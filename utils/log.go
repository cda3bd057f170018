package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fatih/color"
)

type LogLevel string

const (
	Debug LogLevel = "DEBUG"
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

var levelTags = map[LogLevel]string{
	Debug: color.New(color.FgHiBlack).Sprint("[DEBUG]"),
	Info:  color.New(color.FgHiCyan).Sprint("[INFO]"),
	Warn:  color.New(color.FgHiYellow).Sprint("[WARN]"),
	Error: color.New(color.FgHiRed, color.Bold).Sprint("[ERROR]"),
}

// DebugEnabled toggles Debugf output.
var DebugEnabled bool

func logf(level LogLevel, format string, v ...interface{}) {
	log.Printf("%s %s", levelTags[level], fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...interface{}) {
	if DebugEnabled {
		logf(Debug, format, v...)
	}
}

func Infof(format string, v ...interface{})  { logf(Info, format, v...) }
func Warnf(format string, v ...interface{})  { logf(Warn, format, v...) }
func Errorf(format string, v ...interface{}) { logf(Error, format, v...) }

// ChannelSender is the part of the session needed to post log embeds.
type ChannelSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func getColor(level LogLevel) int {
	switch level {
	case Info:
		return 3066993 // Green
	case Warn:
		return 15105570 // Orange
	case Error:
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

// LogToChannel posts an operational event to the log channel. An empty channelID disables it.
func LogToChannel(s ChannelSender, channelID string, level LogLevel, module, operation, extraInfo string) error {
	if channelID == "" {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module, Inline: true},
			{Name: "Operation", Value: operation, Inline: true},
			{Name: "Details", Value: extraInfo},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to send log to channel %s: %w", channelID, err)
	}
	return nil
}

func LogInfo(s ChannelSender, channelID, module, operation, extraInfo string) {
	if err := LogToChannel(s, channelID, Info, module, operation, extraInfo); err != nil {
		Warnf("%v", err)
	}
}

func LogWarn(s ChannelSender, channelID, module, operation, extraInfo string) {
	if err := LogToChannel(s, channelID, Warn, module, operation, extraInfo); err != nil {
		Warnf("%v", err)
	}
}

func LogError(s ChannelSender, channelID, module, operation, extraInfo string) {
	if err := LogToChannel(s, channelID, Error, module, operation, extraInfo); err != nil {
		Warnf("%v", err)
	}
}
