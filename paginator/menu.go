package paginator

import (
	"context"
	"time"

	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// DefaultTimeout is how long a menu keeps listening without an accepted button press.
const DefaultTimeout = 24 * time.Hour

// SendFunc emits the first page of a menu as the command's reply.
type SendFunc func(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error

// Menu runs paginated sessions against a shared Collector.
type Menu struct {
	Collector *Collector
	API       utils.InteractionResponder
	Timeout   time.Duration
}

func NewMenu(collector *Collector, api utils.InteractionResponder, timeout time.Duration) *Menu {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Menu{Collector: collector, API: api, Timeout: timeout}
}

// Run renders page 0 through send and then serves navigation presses for the session,
// editing the original message in place. It returns once the session has been idle for
// the menu timeout or ctx is done. Failed re-renders are logged and do not end the session.
func (m *Menu) Run(ctx context.Context, sessionID string, pages []*discordgo.MessageEmbed, send SendFunc) error {
	session, err := NewSession(sessionID, pages)
	if err != nil {
		return err
	}
	l, err := m.Collector.subscribe(sessionID)
	if err != nil {
		return err
	}
	defer m.Collector.unsubscribe(sessionID)

	if err := send(session.Page(), session.Components()); err != nil {
		return err
	}

	idle := time.NewTimer(m.Timeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-idle.C:
			utils.Debugf("Menu session %s expired on page %d", sessionID, session.Index())
			return nil
		case press := <-l.events:
			if !session.Apply(press.MessageComponentData().CustomID) {
				continue
			}
			idle.Reset(m.Timeout)
			if err := utils.UpdateComponentMessage(m.API, press, session.Page(), session.Components()); err != nil {
				utils.Warnf("Failed to render page %d of menu %s: %v", session.Index(), sessionID, err)
			}
		}
	}
}
