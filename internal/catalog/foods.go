package catalog

import (
	"strconv"
	"strings"
	"time"
)

// CustomPrefix marks ids of user-entered foods.
const CustomPrefix = "custom-"

const notFoundImage = "assets/food_not_found.png"

// FoodItem is a single rateable food. Default ids are stable: the remote
// sheet keys its columns on them.
type FoodItem struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName,omitempty" yaml:"display_name,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty" yaml:"is_default,omitempty"`
	IsCustom    bool   `json:"isCustom,omitempty" yaml:"is_custom,omitempty"`
}

// Label returns the name shown to attendees.
func (f FoodItem) Label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

var defaults = []FoodItem{
	{ID: "wings", Name: "Wings"},
	{ID: "chicken_fingers", Name: "Chicken Fingers"},
	{ID: "spring_rolls", Name: "Spring Rolls"},
	{ID: "sliders", Name: "Sliders"},
	{ID: "fruit_veggie", Name: "Fruit & Veggie Trays"},
	{ID: "samosas", Name: "Samosas"},
	{ID: "popcorn", Name: "Popcorn"},
	{ID: "perogies", Name: "Perogies"},
	{ID: "chips_dip", Name: "Chips & Dips"},
	{ID: "pizza", Name: "Pizza"},
}

var images = map[string]string{
	"wings":           "assets/wings.png",
	"chicken_fingers": "assets/chicken_fingers.png",
	"spring_rolls":    "assets/spring_rolls.png",
	"sliders":         "assets/sliders.png",
	"fruit_veggie":    "assets/fruit_veg.png",
	"samosas":         "assets/samosas.png",
	"popcorn":         "assets/popcorn.png",
	"perogies":        "assets/perogies.png",
	"chips_dip":       "assets/chip_dip.png",
	"pizza":           "assets/pizza.png",
}

// Defaults returns a copy of the default catalog in display order.
func Defaults() []FoodItem {
	out := make([]FoodItem, len(defaults))
	for i, f := range defaults {
		f.DisplayName = f.Name
		f.IsDefault = true
		out[i] = f
	}
	return out
}

// DefaultIDs returns the ids of every default food in display order.
func DefaultIDs() []string {
	ids := make([]string, len(defaults))
	for i, f := range defaults {
		ids[i] = f.ID
	}
	return ids
}

// Lookup resolves a default food by id.
func Lookup(id string) (FoodItem, bool) {
	for _, f := range Defaults() {
		if f.ID == id {
			return f, true
		}
	}
	return FoodItem{}, false
}

// ImagePath returns the asset used to illustrate a food.
func ImagePath(id string) string {
	if IsCustomID(id) {
		return notFoundImage
	}
	if p, ok := images[id]; ok {
		return p
	}
	return notFoundImage
}

func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomPrefix)
}

// Custom builds the display form of a custom food from its stored id and name.
func Custom(id, name string) FoodItem {
	return FoodItem{
		ID:          id,
		Name:        name,
		DisplayName: name,
		IsCustom:    true,
	}
}

// NewCustomFood creates a custom food keyed on the creation time.
func NewCustomFood(name string, now time.Time) FoodItem {
	return Custom(CustomPrefix+strconv.FormatInt(now.UnixMilli(), 10), strings.TrimSpace(name))
}

// UniqueCustomID returns a custom id derived from now that is not in taken.
// Several foods added within the same millisecond get consecutive ids.
func UniqueCustomID(now time.Time, taken map[string]bool) string {
	ms := now.UnixMilli()
	for {
		id := CustomPrefix + strconv.FormatInt(ms, 10)
		if !taken[id] {
			return id
		}
		ms++
	}
}

// NameTaken reports whether name matches any of names, ignoring case and
// surrounding whitespace.
func NameTaken(name string, names ...string) bool {
	name = strings.TrimSpace(name)
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}
