package handlers

import (
	"strconv"
	"strings"

	"dojima-bot/commands"

	"github.com/disgoorg/snowflake/v2"
)

// parseUserID accepts a raw id or a user mention.
func parseUserID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(s[2:len(s)-1], "!")
	}
	id, err := snowflake.Parse(s)
	if err != nil || id == 0 {
		return "", false
	}
	return id.String(), true
}

// userArg reads the target user from the "user" option or the first positional argument.
func userArg(c *commands.Context) (string, bool) {
	if opt := c.Option("user"); opt != nil {
		return opt.UserValue(nil).ID, true
	}
	return parseUserID(c.Arg(0))
}

// intArg reads an integer from the named option or the positional argument at pos.
func intArg(c *commands.Context, name string, pos int) (int, bool) {
	if opt := c.Option(name); opt != nil {
		return int(opt.IntValue()), true
	}
	n, err := strconv.Atoi(c.Arg(pos))
	if err != nil {
		return 0, false
	}
	return n, true
}

// textArg reads free text from the named option or the argument tail starting at pos.
func textArg(c *commands.Context, name string, pos int) string {
	if opt := c.Option(name); opt != nil {
		return strings.TrimSpace(opt.StringValue())
	}
	if pos >= len(c.Args) {
		return ""
	}
	rest := c.RawArgs
	for i := 0; i < pos; i++ {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, c.Args[i]))
	}
	return rest
}
