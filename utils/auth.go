package utils

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var permissionNames = map[int64]string{
	discordgo.PermissionAdministrator:  "Administrator",
	discordgo.PermissionManageMessages: "Manage Messages",
	discordgo.PermissionBanMembers:     "Ban Members",
	discordgo.PermissionKickMembers:    "Kick Members",
	discordgo.PermissionManageGuild:    "Manage Server",
}

// HasPermissions reports whether have contains every bit of need. Administrator implies all.
func HasPermissions(have, need int64) bool {
	if have&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return have&need == need
}

// PermissionNames lists the readable names of the bits set in perms.
func PermissionNames(perms int64) string {
	var names []string
	for bit := int64(1); bit != 0 && bit <= perms; bit <<= 1 {
		if perms&bit == 0 {
			continue
		}
		name, ok := permissionNames[bit]
		if !ok {
			name = fmt.Sprintf("0x%x", bit)
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
