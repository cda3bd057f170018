package utils

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestHasPermissions(t *testing.T) {
	tests := []struct {
		name       string
		have, need int64
		want       bool
	}{
		{"nothing needed", 0, 0, true},
		{"missing", discordgo.PermissionSendMessages, discordgo.PermissionManageMessages, false},
		{"exact", discordgo.PermissionManageMessages, discordgo.PermissionManageMessages, true},
		{"admin implies all", discordgo.PermissionAdministrator, discordgo.PermissionBanMembers | discordgo.PermissionKickMembers, true},
		{"partial", discordgo.PermissionBanMembers, discordgo.PermissionBanMembers | discordgo.PermissionKickMembers, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermissions(tt.have, tt.need); got != tt.want {
				t.Fatalf("HasPermissions(%d, %d) = %v, want %v", tt.have, tt.need, got, tt.want)
			}
		})
	}
}

func TestPermissionNames(t *testing.T) {
	got := PermissionNames(discordgo.PermissionKickMembers | discordgo.PermissionBanMembers)
	if got != "Kick Members, Ban Members" {
		t.Fatalf("unexpected names: %q", got)
	}
}
