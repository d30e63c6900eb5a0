package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/foodsurvey/internal/store"
)

type jsonExport struct {
	ExportedAt     string              `json:"exported_at"`
	Count          int                 `json:"count"`
	Configurations []jsonConfiguration `json:"configurations"`
}

type jsonConfiguration struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	IsDefault   bool     `json:"is_default"`
	Foods       []string `json:"foods"`
	CustomFoods []string `json:"custom_foods"`
	FoodCount   int      `json:"food_count"`
	CreatedDate string   `json:"created_date"`
	LastUsed    string   `json:"last_used"`
	TimesUsed   int      `json:"times_used"`
}

type JSONExporter struct{}

func (e *JSONExporter) Export(configs []store.Configuration, w io.Writer) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(configs),
	}

	for _, c := range configs {
		export.Configurations = append(export.Configurations, jsonConfiguration{
			ID:          c.ID,
			Name:        c.Name,
			IsDefault:   c.IsDefault,
			Foods:       c.Foods,
			CustomFoods: customNames(c),
			FoodCount:   c.FoodCount(),
			CreatedDate: c.CreatedDate,
			LastUsed:    c.LastUsed,
			TimesUsed:   c.TimesUsed,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func (e *JSONExporter) Extension() string { return "json" }

func ToJSON(configs []store.Configuration, path string) error {
	return WriteFile(&JSONExporter{}, configs, path)
}
