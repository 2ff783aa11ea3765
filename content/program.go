// Package content loads the programme shown behind the gate.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed program.yaml
var defaultProgram []byte

// Event is one entry on the timeline.
type Event struct {
	Time        string `yaml:"time" json:"time"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

// Feature is one of the cards under the timeline.
type Feature struct {
	Icon        string `yaml:"icon" json:"icon"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Stat is one of the emoji counters near the footer.
type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Program is everything the protected page displays.
type Program struct {
	Title           string    `yaml:"title" json:"title"`
	Greeting        string    `yaml:"greeting" json:"greeting"`
	Headline        string    `yaml:"headline" json:"headline"`
	HeadlineAccent  string    `yaml:"headline_accent" json:"headline_accent"`
	Intro           string    `yaml:"intro" json:"intro"`
	TimelineHeading string    `yaml:"timeline_heading" json:"timeline_heading"`
	Timeline        []Event   `yaml:"timeline" json:"timeline"`
	Features        []Feature `yaml:"features" json:"features"`
	Stats           []Stat    `yaml:"stats" json:"stats"`
	Footer          string    `yaml:"footer" json:"footer"`
}

// Default returns the embedded programme.
func Default() (*Program, error) {
	return Parse(defaultProgram)
}

// Load reads the programme at path, or the embedded one when path is empty.
func Load(path string) (*Program, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML programme.
func Parse(data []byte) (*Program, error) {
	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	if p.Title == "" {
		return nil, errors.New("parse program: missing title")
	}
	return &p, nil
}
