// Package paginator implements multi-page embed menus navigated with previous/next buttons.
package paginator

import (
	"errors"
	"strings"

	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const tokenPrefix = "menu"

// Action is the navigation step encoded in a button's custom id.
type Action string

const (
	ActionPrev Action = "prev"
	ActionNext Action = "next"
)

// ErrNoPages is returned when a menu is started without content.
var ErrNoPages = errors.New("paginator: menu has no pages")

// Token builds the custom id of a navigation button for the given session.
func Token(sessionID string, action Action) string {
	return tokenPrefix + ":" + sessionID + ":" + string(action)
}

// ParseToken splits a custom id produced by Token.
func ParseToken(customID string) (sessionID string, action Action, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != tokenPrefix || parts[1] == "" {
		return "", "", false
	}
	switch Action(parts[2]) {
	case ActionPrev, ActionNext:
		return parts[1], Action(parts[2]), true
	}
	return "", "", false
}

// Session is the page cursor of one live menu. The index always stays in [0, len(pages)).
type Session struct {
	ID    string
	pages []*discordgo.MessageEmbed
	index int
}

func NewSession(id string, pages []*discordgo.MessageEmbed) (*Session, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return &Session{ID: id, pages: pages}, nil
}

func (s *Session) Index() int { return s.index }

func (s *Session) PageCount() int { return len(s.pages) }

// Page returns the embed at the current index.
func (s *Session) Page() *discordgo.MessageEmbed { return s.pages[s.index] }

// Components returns the navigation buttons bound to this session.
func (s *Session) Components() []discordgo.MessageComponent {
	return utils.CreatePaginationComponents(Token(s.ID, ActionPrev), Token(s.ID, ActionNext))
}

// Apply advances the cursor for a button press. Tokens of other sessions or unknown
// actions leave the cursor untouched and report false.
func (s *Session) Apply(customID string) bool {
	id, action, ok := ParseToken(customID)
	if !ok || id != s.ID {
		return false
	}
	n := len(s.pages)
	switch action {
	case ActionNext:
		s.index = (s.index + 1) % n
	case ActionPrev:
		s.index = (s.index - 1 + n) % n
	}
	return true
}
