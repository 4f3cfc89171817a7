// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package narration

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/danielhkuo/vivendo-na-fe/scripture"
)

// Segment is one verse worth of narration
type Segment struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

var verseMarker = regexp.MustCompile(`(?:^|\s)(\d+)\.\s*`)

// Split cuts chapter text on "<number>." verse markers. Text before the
// first marker is kept as verse 0; empty segments are dropped.
func Split(text string) []Segment {
	matches := verseMarker.FindAllStringSubmatchIndex(text, -1)

	segments := []Segment{}
	add := func(verse int, s string) {
		s = strings.Join(strings.Fields(s), " ")
		if s != "" {
			segments = append(segments, Segment{Verse: verse, Text: s})
		}
	}

	if len(matches) == 0 {
		add(0, text)
		return segments
	}

	add(0, text[:matches[0][0]])
	for i, m := range matches {
		verse, _ := strconv.Atoi(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		add(verse, text[m[1]:end])
	}
	return segments
}

// FromPassage prefers the passage's verse list and splits its text otherwise
func FromPassage(p scripture.Passage) []Segment {
	if len(p.Verses) == 0 {
		return Split(p.Text)
	}

	segments := make([]Segment, 0, len(p.Verses))
	for _, v := range p.Verses {
		text := strings.Join(strings.Fields(v.Text), " ")
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Verse: v.Verse, Text: text})
	}
	return segments
}
