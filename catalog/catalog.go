// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

type Station struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Genre       string `yaml:"genre" json:"genre"`
	Country     string `yaml:"country" json:"country"`
	StreamURL   string `yaml:"stream_url" json:"stream_url"`
}

type Program struct {
	TimeSlot    string `yaml:"time_slot" json:"time_slot"`
	ProgramName string `yaml:"program_name" json:"program_name"`
	Presenter   string `yaml:"presenter" json:"presenter"`
}

type Language struct {
	Code     string `yaml:"code" json:"code"`
	Name     string `yaml:"name" json:"name"`
	Version  string `yaml:"version" json:"version"`
	Narrator string `yaml:"narrator" json:"narrator"`
	Voice    string `yaml:"voice" json:"voice"`
}

type Book struct {
	Name     string `yaml:"name" json:"name"`
	Chapters int    `yaml:"chapters" json:"chapters"`
	Duration string `yaml:"duration" json:"duration"`
}

type Verse struct {
	Ref  string `yaml:"ref" json:"ref"`
	Book string `yaml:"book" json:"book"`
	Text string `yaml:"text" json:"text"`
}

type ChapterVerse struct {
	Verse int    `yaml:"verse" json:"verse"`
	Text  string `yaml:"text" json:"text"`
}

type Resource struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Catalog is the static, display-only content of the site
type Catalog struct {
	Stations         []Station                 `yaml:"stations"`
	DefaultPrograms  []Program                 `yaml:"default_programs"`
	Languages        []Language                `yaml:"languages"`
	Books            []Book                    `yaml:"books"`
	PopularVerses    []Verse                   `yaml:"popular_verses"`
	FallbackChapters map[string][]ChapterVerse `yaml:"fallback_chapters"`
	Resources        []Resource                `yaml:"resources"`
}

// Load parses the catalog compiled into the binary
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// MustLoad is Load for package-level initialisation and tests
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and checks a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	for i, s := range c.Stations {
		if s.Name == "" || s.StreamURL == "" {
			return fmt.Errorf("station %d: name and stream_url are required", i)
		}
	}
	for i, v := range c.PopularVerses {
		if v.Ref == "" || v.Book == "" {
			return fmt.Errorf("popular verse %d: ref and book are required", i)
		}
	}
	for key, verses := range c.FallbackChapters {
		if len(verses) == 0 {
			return fmt.Errorf("fallback chapter %q has no verses", key)
		}
		if !strings.Contains(key, " ") {
			return fmt.Errorf("fallback chapter %q must be keyed \"<book> <chapter>\"", key)
		}
	}
	if len(c.Languages) == 0 {
		return errors.New("catalog needs at least one audio language")
	}
	return nil
}

// FallbackChapter returns the built-in verses for "<book> <chapter>".
// Book names match case-insensitively.
func (c *Catalog) FallbackChapter(book string, chapter int) ([]ChapterVerse, bool) {
	want := fmt.Sprintf("%s %d", book, chapter)
	if verses, ok := c.FallbackChapters[want]; ok {
		return verses, true
	}
	for key, verses := range c.FallbackChapters {
		if strings.EqualFold(key, want) {
			return verses, true
		}
	}
	return nil, false
}

// Language finds an audio language by code; the first one is the default
func (c *Catalog) Language(code string) Language {
	for _, l := range c.Languages {
		if strings.EqualFold(l.Code, code) {
			return l
		}
	}
	return c.Languages[0]
}
