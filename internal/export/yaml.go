package export

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/foodsurvey/internal/store"
)

type yamlExport struct {
	ExportedAt     string                `yaml:"exported_at"`
	Count          int                   `yaml:"count"`
	Configurations []store.Configuration `yaml:"configurations"`
}

// YAMLExporter writes configurations with their full custom food records.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(configs []store.Configuration, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(yamlExport{
		ExportedAt:     time.Now().UTC().Format(time.RFC3339),
		Count:          len(configs),
		Configurations: configs,
	})
}

func (e *YAMLExporter) Extension() string { return "yaml" }
