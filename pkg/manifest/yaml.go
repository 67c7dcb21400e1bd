package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ndelcroix/wikimirror/pkg/models"
)

// yamlEntry is one asset in a YAML manifest
type yamlEntry struct {
	URL  string            `yaml:"url"`
	Path string            `yaml:"path"`
	Meta map[string]string `yaml:"meta"`
}

// yamlManifest is the on-disk YAML manifest shape
type yamlManifest struct {
	Assets []yamlEntry `yaml:"assets"`
}

// LoadYAML parses a YAML manifest of the form:
//
//	assets:
//	  - url: https://example.org/a.png
//	    path: champ/skins/a.png
//	    meta:
//	      champion: Ahri
func LoadYAML(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return ParseYAML(data)
}

// ParseYAML parses YAML manifest content
func ParseYAML(data []byte) (*Manifest, error) {
	var raw yamlManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(raw.Assets) == 0 {
		return nil, fmt.Errorf("manifest contains no assets")
	}

	m := &Manifest{}
	for _, entry := range raw.Assets {
		m.Tasks = append(m.Tasks, models.NewSyncTask(entry.URL, entry.Path, entry.Meta))
	}
	m.MetaColumns = metaColumnsFromTasks(m.Tasks)

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}
