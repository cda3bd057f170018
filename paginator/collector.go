package paginator

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type listener struct {
	events chan *discordgo.Interaction
	done   chan struct{}
}

// Collector routes component interactions to the live menu session named in their custom id.
type Collector struct {
	mu        sync.RWMutex
	listeners map[string]*listener
}

func NewCollector() *Collector {
	return &Collector{listeners: make(map[string]*listener)}
}

func (c *Collector) subscribe(sessionID string) (*listener, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.listeners[sessionID]; exists {
		return nil, fmt.Errorf("paginator: session %s already running", sessionID)
	}
	l := &listener{
		events: make(chan *discordgo.Interaction, 8),
		done:   make(chan struct{}),
	}
	c.listeners[sessionID] = l
	return l, nil
}

func (c *Collector) unsubscribe(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.listeners[sessionID]; ok {
		close(l.done)
		delete(c.listeners, sessionID)
	}
}

// Live returns the number of sessions currently listening.
func (c *Collector) Live() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listeners)
}

// Dispatch hands a component interaction to its session. It reports false when the
// interaction is not a menu button or its session is no longer listening.
// Events for one session are delivered in the order Dispatch is called.
func (c *Collector) Dispatch(i *discordgo.Interaction) bool {
	if i == nil || i.Type != discordgo.InteractionMessageComponent {
		return false
	}
	sessionID, _, ok := ParseToken(i.MessageComponentData().CustomID)
	if !ok {
		return false
	}

	c.mu.RLock()
	l, ok := c.listeners[sessionID]
	c.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case l.events <- i:
		return true
	case <-l.done:
		return false
	}
}
