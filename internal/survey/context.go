package survey

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sadopc/foodsurvey/internal/catalog"
	"github.com/sadopc/foodsurvey/internal/store"
)

// Context holds the active configuration and session for every screen. It
// is the only code that starts or ends sessions.
type Context struct {
	store *store.Store
	log   *zap.Logger

	mu      sync.RWMutex
	active  *store.Configuration
	session *store.Session
}

func NewContext(s *store.Store, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{store: s, log: log}
}

func (c *Context) Store() *store.Store { return c.store }

// Resume restores a session left running by a previous launch. A session
// whose configuration has since been deleted is ended.
func (c *Context) Resume() error {
	sess, err := c.store.ActiveSession()
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if sess == nil {
		c.set(nil, nil)
		return nil
	}

	cfg, err := c.store.GetConfiguration(sess.ConfigID)
	if errors.Is(err, store.ErrNotFound) {
		c.log.Warn("ending session for deleted configuration", zap.String("config_id", sess.ConfigID))
		c.set(nil, nil)
		return c.store.EndSession()
	}
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	c.log.Info("resumed session", zap.String("config_id", cfg.ID), zap.Time("started_at", sess.StartedAt))
	c.set(cfg, sess)
	return nil
}

// Start makes the configuration with id active and begins a session for it.
// The returned configuration includes the usage bump.
func (c *Context) Start(id string) (*store.Configuration, error) {
	if _, err := c.store.GetConfiguration(id); err != nil {
		return nil, fmt.Errorf("start %q: %w", id, err)
	}
	sess, err := c.store.StartSession(id)
	if err != nil {
		return nil, fmt.Errorf("start %q: %w", id, err)
	}
	cfg, err := c.store.GetConfiguration(id)
	if err != nil {
		return nil, fmt.Errorf("start %q: %w", id, err)
	}
	c.log.Info("session started", zap.String("config_id", id), zap.Int("times_used", cfg.TimesUsed))
	c.set(cfg, sess)
	return cfg, nil
}

// End stops the running session, if any.
func (c *Context) End() error {
	if err := c.store.EndSession(); err != nil {
		return err
	}
	c.log.Info("session ended")
	c.set(nil, nil)
	return nil
}

// Reload re-reads the active configuration after it was edited. Deleting
// the active configuration ends the session.
func (c *Context) Reload() error {
	c.mu.RLock()
	active := c.active
	c.mu.RUnlock()
	if active == nil {
		return nil
	}

	cfg, err := c.store.GetConfiguration(active.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.End()
	}
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	c.mu.Lock()
	c.active = cfg
	c.mu.Unlock()
	return nil
}

// Active returns a copy of the active configuration, or nil.
func (c *Context) Active() *store.Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return nil
	}
	cfg := *c.active
	return &cfg
}

func (c *Context) Session() *store.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	sess := *c.session
	return &sess
}

func (c *Context) InSession() bool {
	return c.Session() != nil
}

// Foods resolves the active configuration into the foods to rate.
func (c *Context) Foods() []catalog.FoodItem {
	return store.FoodsForConfiguration(c.Active())
}

func (c *Context) set(cfg *store.Configuration, sess *store.Session) {
	c.mu.Lock()
	c.active = cfg
	c.session = sess
	c.mu.Unlock()
}
