package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/sadopc/foodsurvey/internal/store"
)

type CSVExporter struct{}

func (e *CSVExporter) Export(configs []store.Configuration, out io.Writer) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"ID", "Name", "Default", "Foods", "Custom Foods", "Food Count", "Created", "Last Used", "Times Used"}); err != nil {
		return err
	}

	for _, c := range configs {
		row := []string{
			c.ID,
			c.Name,
			strconv.FormatBool(c.IsDefault),
			strings.Join(c.Foods, ","),
			strings.Join(customNames(c), ","),
			strconv.Itoa(c.FoodCount()),
			c.CreatedDate,
			c.LastUsed,
			strconv.Itoa(c.TimesUsed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (e *CSVExporter) Extension() string { return "csv" }

func ToCSV(configs []store.Configuration, path string) error {
	return WriteFile(&CSVExporter{}, configs, path)
}
