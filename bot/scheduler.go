package bot

import (
	"math/rand/v2"
	"sync"
	"time"

	"dojima-bot/utils"
)

const cooldownCleanupInterval = time.Hour

// presenceLines is the rotation shown as the bot's custom status.
func presenceLines(prefix string) []string {
	return []string{
		"Type " + prefix + "help or /help",
		"Keeping channels tidy",
		"Watching over the server",
		"Use " + prefix + "set_prefix to change my prefix",
		"Serving slash and prefix commands",
	}
}

// StatusUpdater sets the bot's custom status.
type StatusUpdater interface {
	UpdateCustomStatus(state string) error
}

// CooldownCleaner evicts idle cooldown buckets.
type CooldownCleaner interface {
	Cleanup(idle time.Duration) int
}

// Scheduler runs the bot's periodic background tasks.
type Scheduler struct {
	status           StatusUpdater
	cooldowns        CooldownCleaner
	presenceInterval time.Duration
	lines            []string

	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

// NewScheduler creates a new scheduler.
func NewScheduler(b *Bot) *Scheduler {
	var cleaner CooldownCleaner
	if b.Cooldowns != nil {
		cleaner = b.Cooldowns
	}
	return newScheduler(b.Session, cleaner, b.GetConfig().PresenceInterval, presenceLines(b.GetConfig().DefaultPrefix))
}

func newScheduler(status StatusUpdater, cooldowns CooldownCleaner, interval time.Duration, lines []string) *Scheduler {
	return &Scheduler{
		status:           status,
		cooldowns:        cooldowns,
		presenceInterval: interval,
		lines:            lines,
		done:             make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	if s.presenceInterval > 0 && len(s.lines) > 0 {
		s.wg.Add(1)
		go s.rotatePresence()
	}
	if s.cooldowns != nil {
		s.wg.Add(1)
		go s.cleanupCooldowns()
	}
}

// Stop terminates all scheduled tasks gracefully. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		utils.Infof("Stopping scheduler...")
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Scheduler) rotatePresence() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.presenceInterval)
	defer ticker.Stop()

	s.updatePresence()
	for {
		select {
		case <-ticker.C:
			s.updatePresence()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) updatePresence() {
	line := s.lines[rand.IntN(len(s.lines))]
	if err := s.status.UpdateCustomStatus(line); err != nil {
		utils.Warnf("Failed to update presence: %v", err)
	}
}

func (s *Scheduler) cleanupCooldowns() {
	defer s.wg.Done()
	ticker := time.NewTicker(cooldownCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.cooldowns.Cleanup(cooldownCleanupInterval); n > 0 {
				utils.Debugf("Evicted %d idle cooldown buckets", n)
			}
		case <-s.done:
			return
		}
	}
}
