package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/foodsurvey/internal/store"
)

// Exporter writes saved configurations in one file format.
type Exporter interface {
	Export(configs []store.Configuration, w io.Writer) error
	Extension() string
}

// Formats lists the accepted NewExporter formats.
var Formats = []string{"csv", "json", "yaml"}

func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv":
		return &CSVExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, json, yaml)", format)
	}
}

// WriteFile exports configs to path.
func WriteFile(e Exporter, configs []store.Configuration, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", e.Extension(), err)
	}
	if err := e.Export(configs, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Filename is the default export name for a format.
func Filename(e Exporter, now time.Time) string {
	return fmt.Sprintf("foodsurvey-configurations-%s.%s", now.Format("20060102-150405"), e.Extension())
}

func customNames(c store.Configuration) []string {
	names := make([]string, len(c.CustomFoods))
	for i, f := range c.CustomFoods {
		names[i] = f.Name
	}
	return names
}
