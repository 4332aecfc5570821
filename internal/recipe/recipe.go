// Package recipe reads a YAML list of task steps, so a whole refactor can be
// replayed with one command.
package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sokinpui/iconfix/internal/config"
	"github.com/sokinpui/iconfix/internal/task"
)

// Step is a single task invocation. Unset options keep the value from the
// loaded configuration.
type Step struct {
	Task         string   `yaml:"task"`
	Dir          string   `yaml:"dir,omitempty"`
	Prefix       string   `yaml:"prefix,omitempty"`
	Substrings   []string `yaml:"substrings,omitempty"`
	Regex        *bool    `yaml:"regex,omitempty"`
	Block        string   `yaml:"block,omitempty"`
	Pattern      string   `yaml:"pattern,omitempty"`
	Import       string   `yaml:"import,omitempty"`
	Reserved     string   `yaml:"reserved,omitempty"`
	Ext          string   `yaml:"ext,omitempty"`
	Index        string   `yaml:"index,omitempty"`
	Marker       string   `yaml:"marker,omitempty"`
	SkipExisting *bool    `yaml:"skip_existing,omitempty"`
	Match        string   `yaml:"match,omitempty"`
	Skip         []string `yaml:"skip,omitempty"`
}

// Recipe is an ordered list of steps.
type Recipe struct {
	Steps []Step `yaml:"steps"`
}

// Load reads and validates a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read recipe: %w", err)
	}
	return Parse(data)
}

// Parse decodes a recipe, rejecting unknown fields.
func Parse(data []byte) (*Recipe, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var r Recipe
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}
	if len(r.Steps) == 0 {
		return nil, errors.New("invalid recipe: no steps")
	}
	for i, s := range r.Steps {
		if s.Task == "" {
			return nil, fmt.Errorf("invalid recipe: step %d has no task", i+1)
		}
	}
	return &r, nil
}

// Overlay returns a copy of base with the step's options applied to the
// section of its task.
func (s Step) Overlay(base *config.Config) *config.Config {
	cfg := *base
	if s.Dir != "" {
		cfg.Dir = s.Dir
	}

	switch s.Task {
	case task.NameStripPrefix:
		setString(&cfg.StripPrefix.Prefix, s.Prefix)
	case task.NameTypeImport:
		if s.Regex != nil {
			cfg.TypeImport.Regex = *s.Regex
		}
		setString(&cfg.TypeImport.Block, s.Block)
		setString(&cfg.TypeImport.Pattern, s.Pattern)
		setString(&cfg.TypeImport.Import, s.Import)
		setString(&cfg.TypeImport.Reserved, s.Reserved)
		setString(&cfg.TypeImport.Ext, s.Ext)
	case task.NameStripSize:
		if len(s.Substrings) > 0 {
			cfg.StripSize.Substrings = s.Substrings
		}
		setString(&cfg.StripSize.Ext, s.Ext)
	case task.NameExportList:
		setString(&cfg.ExportList.Index, s.Index)
		setString(&cfg.ExportList.Marker, s.Marker)
		setString(&cfg.ExportList.Ext, s.Ext)
		setString(&cfg.ExportList.Match, s.Match)
		if s.SkipExisting != nil {
			cfg.ExportList.SkipExisting = *s.SkipExisting
		}
	case task.NamePrefixIdentifiers:
		setString(&cfg.PrefixIdentifiers.Prefix, s.Prefix)
		if len(s.Skip) > 0 {
			cfg.PrefixIdentifiers.Skip = s.Skip
		}
	case task.NameSizeSuffix:
		setString(&cfg.SizeSuffix.Ext, s.Ext)
	}
	return &cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
