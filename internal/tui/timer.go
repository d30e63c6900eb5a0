package tui

import (
	"time"

	"github.com/sadopc/foodsurvey/internal/store"
)

// sessionClock tracks how long the active survey session has been running.
type sessionClock struct {
	configName string
	startedAt  time.Time
	elapsed    time.Duration
	now        func() time.Time
}

func newSessionClock() sessionClock {
	return sessionClock{now: time.Now}
}

// start begins timing from the session's recorded start, so a resumed
// session keeps counting from when it was first started.
func (c *sessionClock) start(sess *store.Session, cfg *store.Configuration) {
	if sess == nil || cfg == nil {
		c.stop()
		return
	}
	c.configName = cfg.Name
	c.startedAt = sess.StartedAt
	c.tick()
}

func (c *sessionClock) stop() {
	c.configName = ""
	c.startedAt = time.Time{}
	c.elapsed = 0
}

func (c *sessionClock) tick() {
	if !c.running() {
		return
	}
	c.elapsed = c.now().Sub(c.startedAt)
	if c.elapsed < 0 {
		c.elapsed = 0
	}
}

func (c sessionClock) running() bool {
	return !c.startedAt.IsZero()
}
