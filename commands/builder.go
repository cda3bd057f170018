package commands

import (
	"github.com/bwmarrin/discordgo"
)

// SlashDefinitions generates the application commands for every slash-capable entry of the table.
func SlashDefinitions(reg *Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, cmd := range reg.Commands() {
		if !cmd.Kinds.Has(KindSlash) {
			continue
		}
		def := &discordgo.ApplicationCommand{
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		}
		if cmd.Permissions != 0 {
			perms := cmd.Permissions
			def.DefaultMemberPermissions = &perms
		}
		if cmd.GuildOnly || cmd.Permissions != 0 {
			dm := false
			def.DMPermission = &dm
		}
		defs = append(defs, def)
	}
	return defs
}
