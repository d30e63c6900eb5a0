package remotelog

import (
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/foodsurvey/internal/store"
	"github.com/sadopc/foodsurvey/internal/survey"
)

const (
	TypeConfigUpdate   = "config_update"
	TypeSurveyResponse = "survey_response"
	TypeTest           = "test"
)

// timestampLayout matches the millisecond UTC form the sheet script parses.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Payload is the envelope every request carries.
type Payload struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// ConfigurationPayload snapshots cfg for the configuration log sheet.
func ConfigurationPayload(cfg store.Configuration) Payload {
	names := make([]string, len(cfg.CustomFoods))
	for i, f := range cfg.CustomFoods {
		names[i] = f.Name
	}
	return Payload{
		Type: TypeConfigUpdate,
		Data: map[string]any{
			"survey_id":     cfg.ID,
			"survey_name":   cfg.Name,
			"default_foods": strings.Join(cfg.Foods, ","),
			"custom_foods":  strings.Join(names, ","),
			"created_date":  cfg.CreatedDate,
			"last_used":     cfg.LastUsed,
			"times_used":    cfg.TimesUsed,
		},
	}
}

// ResponsePayload flattens resp into one row: a column per rated food id
// holding the rating emoji, plus the fixed columns. A food id equal to a
// fixed column name loses to the fixed column.
func ResponsePayload(resp survey.Response, now time.Time) Payload {
	data := make(map[string]any, len(resp.FoodRatings)+8)
	for id, r := range resp.FoodRatings {
		data[id] = r.Emoji()
	}

	at := resp.SubmittedAt
	if at.IsZero() {
		at = now
	}
	at = at.UTC()
	date := resp.Date
	if date == "" {
		date = at.Format(store.DateLayout)
	}

	data["respondent_id"] = resp.RespondentID
	data["survey_id"] = resp.SurveyID
	data["survey_name"] = resp.SurveyName
	data["respondent_name"] = resp.RespondentName
	data["comments"] = resp.Comments
	data["date"] = date
	data["timestamp"] = at.Format(timestampLayout)
	return Payload{Type: TypeSurveyResponse, Data: data}
}

func testPayload() Payload {
	return Payload{Type: TypeTest, Data: map[string]any{}}
}

// describe is a short label for log lines.
func (p Payload) describe() string {
	if id, ok := p.Data["respondent_id"].(int); ok {
		return p.Type + " #" + strconv.Itoa(id)
	}
	if id, ok := p.Data["survey_id"].(string); ok {
		return p.Type + " " + id
	}
	return p.Type
}
