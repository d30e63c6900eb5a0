package survey

import (
	"fmt"
	"time"
)

// Rating is an attendee's verdict on one food.
type Rating string

const (
	Love Rating = "love"
	OK   Rating = "ok"
	Nope Rating = "nope"
)

// Ratings lists every rating in the order they are offered.
var Ratings = []Rating{Love, OK, Nope}

// Emoji is the form the remote sheet records.
func (r Rating) Emoji() string {
	switch r {
	case Love:
		return "😍"
	case OK:
		return "😐"
	case Nope:
		return "🤢"
	}
	return ""
}

func (r Rating) Label() string {
	switch r {
	case Love:
		return "Love"
	case OK:
		return "OK"
	case Nope:
		return "Nope"
	}
	return string(r)
}

func (r Rating) Valid() bool {
	return r.Emoji() != ""
}

// ParseRating accepts a rating name or its emoji.
func ParseRating(s string) (Rating, error) {
	for _, r := range Ratings {
		if s == string(r) || s == r.Emoji() {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown rating %q", s)
}

// Response is one attendee's completed survey. It lives only until it has
// been handed to the remote logger.
type Response struct {
	RespondentID   int
	SurveyID       string
	SurveyName     string
	RespondentName string
	FoodRatings    map[string]Rating
	// FoodOrder keeps the rated food ids in the order they were shown.
	FoodOrder   []string
	Comments    string
	Date        string
	SubmittedAt time.Time
}
