package ingest

import (
	"embed"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/vocab.yaml config/sources.yaml
var configFS embed.FS

// Vocab holds the header synonym table and the keyword vocabularies used to
// classify chip/badge text. Loaded once from the embedded config.
type Vocab struct {
	HeaderAliases map[string][]string `yaml:"header_aliases"`
	Platforms     []string            `yaml:"platforms"`
	Phases        []string            `yaml:"phases"`
	Audience      []string            `yaml:"audience"`
	Statuses      []string            `yaml:"statuses"`

	ImpactSections  []string `yaml:"impact_sections"`
	HowtoSections   []string `yaml:"howto_sections"`
	LicenseSections []string `yaml:"license_sections"`

	// headerIndex is the inverted alias table, built on load.
	headerIndex map[string]string
}

// SourceConfig defines one live export location for the fetch_sources tool.
type SourceConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// Registry holds the configured live export sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// LoadVocab parses the embedded vocab.yaml.
func LoadVocab() (*Vocab, error) {
	data, err := configFS.ReadFile("config/vocab.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded vocab: %w", err)
	}

	var v Vocab
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vocab: %w", err)
	}

	v.headerIndex = make(map[string]string)
	for canonical, aliases := range v.HeaderAliases {
		for _, a := range aliases {
			v.headerIndex[strings.ToLower(cleanText(a))] = canonical
		}
	}
	return &v, nil
}

// CanonicalHeader maps a raw table header onto its canonical field name.
// Unknown headers come back lowercased but otherwise unchanged.
func (v *Vocab) CanonicalHeader(raw string) string {
	key := strings.ToLower(cleanText(raw))
	if canonical, ok := v.headerIndex[key]; ok {
		return canonical
	}
	return key
}

var vocabOnce = sync.OnceValues(LoadVocab)

// activeVocab returns the shared vocabulary, falling back to an empty one if
// the embedded config is unparseable.
func activeVocab() *Vocab {
	v, err := vocabOnce()
	if err != nil {
		log.Printf("[ingest] vocab config error: %v", err)
		return &Vocab{headerIndex: map[string]string{}}
	}
	return v
}

// LoadRegistry reads the source registry. A non-empty path overrides the
// embedded sources.yaml. Environment variables inside the YAML are expanded
// (e.g. ${MESSAGE_CENTER_EXPORT_URL}).
func LoadRegistry(path string) (*Registry, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = configFS.ReadFile("config/sources.yaml")
	}
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}
