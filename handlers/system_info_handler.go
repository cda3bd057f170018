package handlers

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"dojima-bot/commands"
	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// PrefixCounter reports how many guilds configured their own prefix.
type PrefixCounter interface {
	CountPrefixes(ctx context.Context) (int, error)
}

// SystemInfoHandler answers the stats command with host and bot statistics.
type SystemInfoHandler struct {
	Latency      func() time.Duration
	GuildCount   func() int
	Prefixes     PrefixCounter
	DatabasePath string
	Uptime       func() time.Duration
}

func (h *SystemInfoHandler) Descriptors() []*commands.Descriptor {
	return []*commands.Descriptor{{
		Name:        "stats",
		Description: "Show host and bot statistics",
		Category:    "Info",
		Kinds:       commands.KindBoth,
		Handler:     h.Stats,
	}}
}

func (h *SystemInfoHandler) Stats(c *commands.Context) error {
	// cpu.Percent blocks for its sampling interval
	if err := c.Defer(false); err != nil {
		utils.Warnf("Failed to defer stats: %v", err)
	}
	return c.ReplyEmbed(h.embed(c.Ctx))
}

func (h *SystemInfoHandler) embed(ctx context.Context) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "🐹 Go Version", Value: runtime.Version(), Inline: true},
		{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
	}
	if h.Uptime != nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "⏳ Uptime", Value: h.Uptime().Round(time.Second).String(), Inline: true})
	}

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			&discordgo.MessageEmbedField{Name: "🔧 Kernel", Value: hostInfo.KernelVersion, Inline: true},
		)
	} else {
		utils.Debugf("host info unavailable: %v", err)
	}
	if cpuCount, err := cpu.CountsWithContext(ctx, true); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true})
	}
	if cpuPercent, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🔥 CPU Usage", Value: fmt.Sprintf("%.1f%%", cpuPercent[0]), Inline: true})
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "🧠 Memory",
			Value:  fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024),
			Inline: true,
		})
	}

	if info, err := os.Stat(h.DatabasePath); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🗃️ Database", Value: fmt.Sprintf("%.2f MB", float64(info.Size())/1024/1024), Inline: true})
	}
	if h.Prefixes != nil {
		if n, err := h.Prefixes.CountPrefixes(ctx); err == nil {
			fields = append(fields, &discordgo.MessageEmbedField{Name: "🔤 Custom Prefixes", Value: fmt.Sprintf("%d", n), Inline: true})
		} else {
			utils.Warnf("Failed to count prefixes: %v", err)
		}
	}
	if h.Latency != nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "⏱️ WebSocket Latency", Value: h.Latency().String(), Inline: true})
	}
	if h.GuildCount != nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🌍 Servers", Value: fmt.Sprintf("%d", h.GuildCount()), Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:  "System Information",
		Color:  0x5865F2, // Discord Blurple
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("System monitor · %s", time.Now().Format("15:04")),
		},
	}
}
