package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/foodsurvey/internal/catalog"
)

var autoNamePattern = regexp.MustCompile(`Survey (\d+)`)

// Initialize seeds the default configuration when nothing has been saved yet.
// It is safe to call any number of times.
func (s *Store) Initialize() error {
	data, err := json.Marshal([]Configuration{s.DefaultConfiguration()})
	if err != nil {
		return &StorageError{Key: KeySavedConfigurations, Op: "encode", Err: err}
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		KeySavedConfigurations, string(data), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("initialize configurations: %w", &StorageError{Key: KeySavedConfigurations, Op: "write", Err: err})
	}
	return nil
}

// DefaultConfiguration builds the seed configuration with every catalog food.
func (s *Store) DefaultConfiguration() Configuration {
	today := s.today()
	return Configuration{
		ID:          DefaultConfigID,
		Name:        "Default Survey",
		Foods:       catalog.DefaultIDs(),
		CustomFoods: []catalog.FoodItem{},
		CreatedDate: today,
		LastUsed:    today,
		TimesUsed:   0,
		IsDefault:   true,
	}
}

// NewConfiguration builds an unsaved custom configuration. A blank name is
// replaced by the next free "Survey N".
func (s *Store) NewConfiguration(name string, foods []string, customFoods []catalog.FoodItem) (Configuration, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		configs, err := s.ListConfigurations()
		if err != nil {
			return Configuration{}, err
		}
		name = GenerateAutoName(configs)
	}
	if foods == nil {
		foods = []string{}
	}
	if customFoods == nil {
		customFoods = []catalog.FoodItem{}
	}
	now := s.now()
	today := now.UTC().Format(DateLayout)
	return Configuration{
		ID:          "config-" + strconv.FormatInt(now.UnixMilli(), 10),
		Name:        name,
		Foods:       foods,
		CustomFoods: customFoods,
		CreatedDate: today,
		LastUsed:    today,
		IsDefault:   false,
	}, nil
}

// GenerateAutoName returns "Survey N" where N is one past the highest number
// already used by a non-default configuration name.
func GenerateAutoName(configs []Configuration) string {
	highest := 0
	for _, c := range configs {
		if c.IsDefault {
			continue
		}
		m := autoNamePattern.FindStringSubmatch(c.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("Survey %d", highest+1)
}

// loadConfigurations reads the saved list. A missing key yields the default
// configuration and an unreadable payload is logged and degraded the same way.
func (s *Store) loadConfigurations(q execer) ([]Configuration, bool, error) {
	var configs []Configuration
	found, err := getJSON(q, KeySavedConfigurations, &configs)
	if isDecodeFault(err) {
		s.log.Warn("saved configurations unreadable, falling back to default",
			zap.String("key", KeySavedConfigurations), zap.Error(err))
		return []Configuration{s.DefaultConfiguration()}, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !found {
		return []Configuration{s.DefaultConfiguration()}, false, nil
	}
	return configs, true, nil
}

// ListConfigurations returns every saved configuration. An empty store is
// seeded with the default configuration first.
func (s *Store) ListConfigurations() ([]Configuration, error) {
	configs, found, err := s.loadConfigurations(s.db)
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	if found {
		return configs, nil
	}
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	configs, _, err = s.loadConfigurations(s.db)
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return configs, nil
}

func (s *Store) GetConfiguration(id string) (*Configuration, error) {
	configs, err := s.ListConfigurations()
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if configs[i].ID == id {
			return &configs[i], nil
		}
	}
	return nil, fmt.Errorf("get configuration %q: %w", id, ErrNotFound)
}

// SaveConfiguration inserts cfg or replaces the entry with the same id.
// It performs no validation; see Validate.
func (s *Store) SaveConfiguration(cfg Configuration) error {
	if cfg.Foods == nil {
		cfg.Foods = []string{}
	}
	if cfg.CustomFoods == nil {
		cfg.CustomFoods = []catalog.FoodItem{}
	}
	err := s.update(func(tx *sql.Tx) error {
		configs, _, err := s.loadConfigurations(tx)
		if err != nil {
			return err
		}
		return s.putJSON(tx, KeySavedConfigurations, upsert(configs, cfg))
	})
	if err != nil {
		return fmt.Errorf("save configuration %q: %w", cfg.ID, err)
	}
	return nil
}

func upsert(configs []Configuration, cfg Configuration) []Configuration {
	for i := range configs {
		if configs[i].ID == cfg.ID {
			configs[i] = cfg
			return configs
		}
	}
	return append(configs, cfg)
}

// DeleteConfiguration removes the configuration with the given id. Removing
// an id that does not exist succeeds. The default configuration is refused.
func (s *Store) DeleteConfiguration(id string) error {
	if id == DefaultConfigID {
		s.log.Warn("refusing to delete default configuration")
		return ErrProtectedConfiguration
	}
	err := s.update(func(tx *sql.Tx) error {
		configs, _, err := s.loadConfigurations(tx)
		if err != nil {
			return err
		}
		kept := make([]Configuration, 0, len(configs))
		for _, c := range configs {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		return s.putJSON(tx, KeySavedConfigurations, kept)
	})
	if err != nil {
		return fmt.Errorf("delete configuration %q: %w", id, err)
	}
	return nil
}

// IsCustomLimitReached reports whether MaxCustomConfigurations non-default
// configurations already exist. The store does not enforce the cap; creation
// screens check it before offering to create another.
func (s *Store) IsCustomLimitReached() (bool, error) {
	configs, err := s.ListConfigurations()
	if err != nil {
		return false, err
	}
	custom := 0
	for _, c := range configs {
		if !c.IsDefault {
			custom++
		}
	}
	return custom >= MaxCustomConfigurations, nil
}

// CheckCanCreate is IsCustomLimitReached in error form.
func (s *Store) CheckCanCreate() error {
	reached, err := s.IsCustomLimitReached()
	if err != nil {
		return err
	}
	if reached {
		return ErrCustomLimitReached
	}
	return nil
}

// TouchUsage stamps today's date on the configuration and bumps its use count.
func (s *Store) TouchUsage(id string) (*Configuration, error) {
	var touched Configuration
	err := s.update(func(tx *sql.Tx) error {
		configs, _, err := s.loadConfigurations(tx)
		if err != nil {
			return err
		}
		for i := range configs {
			if configs[i].ID != id {
				continue
			}
			configs[i].LastUsed = s.today()
			configs[i].TimesUsed++
			touched = configs[i]
			return s.putJSON(tx, KeySavedConfigurations, configs)
		}
		return ErrNotFound
	})
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("touch usage %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("touch usage %q: %w", id, err)
	}
	return &touched, nil
}

// FoodsForConfiguration resolves a configuration into the ordered list of
// foods to rate: selected defaults first, then custom foods. Default ids that
// are no longer in the catalog are skipped.
func FoodsForConfiguration(cfg *Configuration) []catalog.FoodItem {
	if cfg == nil {
		return nil
	}
	foods := make([]catalog.FoodItem, 0, cfg.FoodCount())
	for _, id := range cfg.Foods {
		if f, ok := catalog.Lookup(id); ok {
			foods = append(foods, f)
		}
	}
	for _, f := range cfg.CustomFoods {
		foods = append(foods, catalog.Custom(f.ID, f.Name))
	}
	return foods
}
