package store

import (
	"time"

	"github.com/sadopc/foodsurvey/internal/catalog"
)

const (
	// DefaultConfigID identifies the protected seed configuration.
	DefaultConfigID = "default"

	// MaxCustomConfigurations caps non-default configurations. Plus the
	// default that makes three in total.
	MaxCustomConfigurations = 2

	// DateLayout is used for CreatedDate and LastUsed.
	DateLayout = "2006-01-02"
)

// Configuration is a named selection of foods that drives one survey.
type Configuration struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Foods       []string           `json:"foods" yaml:"foods"`
	CustomFoods []catalog.FoodItem `json:"customFoods" yaml:"custom_foods"`
	CreatedDate string             `json:"createdDate" yaml:"created_date"`
	LastUsed    string             `json:"lastUsed" yaml:"last_used"`
	TimesUsed   int                `json:"timesUsed" yaml:"times_used"`
	IsDefault   bool               `json:"isDefault" yaml:"is_default"`
}

// FoodCount is the number of foods an attendee will be asked to rate.
func (c Configuration) FoodCount() int {
	return len(c.Foods) + len(c.CustomFoods)
}

// LastUsedTime parses LastUsed. The zero time is returned when it is unset
// or malformed.
func (c Configuration) LastUsedTime() time.Time {
	t, err := time.Parse(DateLayout, c.LastUsed)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HistoryEntry is a custom food remembered for reuse in later surveys.
type HistoryEntry struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Food converts the entry to a selectable custom food.
func (h HistoryEntry) Food() catalog.FoodItem {
	return catalog.Custom(h.ID, h.Name)
}

// Session pairs the configuration in use with the moment it was started.
type Session struct {
	ConfigID  string    `json:"configId"`
	StartedAt time.Time `json:"startedAt"`
}
