package survey

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/foodsurvey/internal/catalog"
	"github.com/sadopc/foodsurvey/internal/store"
)

// Stage is the runner's position in the attendee flow.
type Stage int

const (
	StageWelcome Stage = iota
	StageRating
	StageComments
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageWelcome:
		return "welcome"
	case StageRating:
		return "rating"
	case StageComments:
		return "comments"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

var ErrWrongStage = errors.New("action not allowed at this stage")

// Runner walks one attendee through rating each food of a configuration.
// It is not safe for concurrent use.
type Runner struct {
	foods    []catalog.FoodItem
	stage    Stage
	index    int
	ratings  map[string]Rating
	comments string
	name     string
}

func NewRunner(foods []catalog.FoodItem) *Runner {
	r := &Runner{foods: foods}
	r.Reset()
	return r
}

// Reset clears every answer and returns to the welcome stage.
func (r *Runner) Reset() {
	r.stage = StageWelcome
	r.index = 0
	r.ratings = make(map[string]Rating)
	r.comments = ""
	r.name = ""
}

func (r *Runner) Stage() Stage { return r.stage }

func (r *Runner) Foods() []catalog.FoodItem { return r.foods }

// Begin leaves the welcome stage. A configuration without foods goes
// straight to comments.
func (r *Runner) Begin() error {
	if r.stage != StageWelcome {
		return fmt.Errorf("begin: %w", ErrWrongStage)
	}
	r.index = 0
	if len(r.foods) == 0 {
		r.stage = StageComments
		return nil
	}
	r.stage = StageRating
	return nil
}

// Current returns the food being rated.
func (r *Runner) Current() (catalog.FoodItem, bool) {
	if r.stage != StageRating || r.index >= len(r.foods) {
		return catalog.FoodItem{}, false
	}
	return r.foods[r.index], true
}

// Progress returns the 1-based position of the current food and the total.
func (r *Runner) Progress() (int, int) {
	return r.index + 1, len(r.foods)
}

// RatingFor returns the rating already given to a food, if any.
func (r *Runner) RatingFor(id string) (Rating, bool) {
	rt, ok := r.ratings[id]
	return rt, ok
}

// Rate records rt for the current food and advances. Rating the last food
// moves on to comments.
func (r *Runner) Rate(rt Rating) error {
	food, ok := r.Current()
	if !ok {
		return fmt.Errorf("rate: %w", ErrWrongStage)
	}
	if !rt.Valid() {
		return fmt.Errorf("rate %s: unknown rating %q", food.ID, rt)
	}
	r.ratings[food.ID] = rt
	if r.index < len(r.foods)-1 {
		r.index++
		return nil
	}
	r.stage = StageComments
	return nil
}

// Back steps to the previous screen: the previous food, or welcome from the
// first food, or the last food from comments.
func (r *Runner) Back() {
	switch r.stage {
	case StageRating:
		if r.index > 0 {
			r.index--
			return
		}
		r.stage = StageWelcome
	case StageComments:
		if len(r.foods) == 0 {
			r.stage = StageWelcome
			return
		}
		r.index = len(r.foods) - 1
		r.stage = StageRating
	}
}

// SetComments stores the optional free text and attendee name.
func (r *Runner) SetComments(comments, name string) {
	r.comments = strings.TrimSpace(comments)
	r.name = strings.TrimSpace(name)
}

// Finish assembles the response for cfg and moves to the done stage.
func (r *Runner) Finish(respondentID int, cfg *store.Configuration, now time.Time) (Response, error) {
	if r.stage != StageComments {
		return Response{}, fmt.Errorf("finish: %w", ErrWrongStage)
	}
	if cfg == nil {
		return Response{}, errors.New("finish: no active configuration")
	}
	ratings := make(map[string]Rating, len(r.ratings))
	order := make([]string, 0, len(r.foods))
	for _, f := range r.foods {
		if rt, ok := r.ratings[f.ID]; ok {
			ratings[f.ID] = rt
			order = append(order, f.ID)
		}
	}
	r.stage = StageDone
	return Response{
		RespondentID:   respondentID,
		SurveyID:       cfg.ID,
		SurveyName:     cfg.Name,
		RespondentName: r.name,
		FoodRatings:    ratings,
		FoodOrder:      order,
		Comments:       r.comments,
		Date:           now.UTC().Format(store.DateLayout),
		SubmittedAt:    now.UTC(),
	}, nil
}
