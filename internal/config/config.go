package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"jdparse-engine/internal/extract"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`

		// seconds between checks of the config file for edits; 0 disables
		ReloadSeconds int `yaml:"reload_seconds" json:"reload_seconds"`
	} `yaml:"app" json:"app"`

	Parser struct {
		Concurrent    bool `yaml:"concurrent" json:"concurrent"`
		MaxInputBytes int  `yaml:"max_input_bytes" json:"max_input_bytes"`
		BatchLimit    int  `yaml:"batch_limit" json:"batch_limit"`

		// stop qualifier windows at line and sentence breaks
		ClauseWindows bool `yaml:"clause_windows" json:"clause_windows"`
	} `yaml:"parser" json:"parser"`

	HTTP struct {
		RatePerSec float64 `yaml:"rate_per_sec" json:"rate_per_sec"`
		Burst      int     `yaml:"burst" json:"burst"`
	} `yaml:"http" json:"http"`

	// extra terms appended to the built-in tables
	Vocabulary struct {
		Skills         []string `yaml:"skills" json:"skills"`
		Languages      []string `yaml:"languages" json:"languages"`
		Certifications []string `yaml:"certifications" json:"certifications"`
		Keywords       []string `yaml:"keywords" json:"keywords"`
	} `yaml:"vocabulary" json:"vocabulary"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.App.DataDir = "."
	cfg.App.ReloadSeconds = 10
	cfg.Parser.MaxInputBytes = 1 << 20
	cfg.Parser.BatchLimit = 4
	cfg.HTTP.RatePerSec = 10
	cfg.HTTP.Burst = 20
	return cfg
}

// Load reads path over Default(); keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParserVocabulary is the default vocabulary extended with the configured terms.
func (c Config) ParserVocabulary() *extract.Vocabulary {
	v := extract.DefaultVocabulary()
	v.AddSkills(c.Vocabulary.Skills...)
	v.AddLanguages(c.Vocabulary.Languages...)
	v.AddCertifications(c.Vocabulary.Certifications...)
	v.AddKeywords(c.Vocabulary.Keywords...)
	v.ClauseWindows = c.Parser.ClauseWindows
	return v
}
