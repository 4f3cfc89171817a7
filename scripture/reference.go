// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scripture

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Reference is a parsed "<book> <chapter>[:<verse>[-<verse>]]" string
type Reference struct {
	Book       string
	Chapter    int
	VerseStart int // 0 means the whole chapter
	VerseEnd   int
}

var referencePattern = regexp.MustCompile(`^\s*(.+?)\s+(\d+)(?:\s*:\s*(\d+)(?:\s*-\s*(\d+))?)?\s*$`)

// ParseReference understands "João 3", "Salmos 23:1", "1 Coríntios 13:4-7"
func ParseReference(s string) (Reference, error) {
	m := referencePattern.FindStringSubmatch(s)
	if m == nil {
		return Reference{}, fmt.Errorf("unrecognised reference %q", s)
	}

	ref := Reference{Book: strings.Join(strings.Fields(m[1]), " ")}
	ref.Chapter, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		ref.VerseStart, _ = strconv.Atoi(m[3])
		ref.VerseEnd = ref.VerseStart
	}
	if m[4] != "" {
		ref.VerseEnd, _ = strconv.Atoi(m[4])
	}

	if ref.Chapter == 0 || ref.VerseEnd < ref.VerseStart {
		return Reference{}, fmt.Errorf("unrecognised reference %q", s)
	}
	return ref, nil
}

// ChapterKey is the "<book> <chapter>" key of the fallback map
func (r Reference) ChapterKey() string {
	return fmt.Sprintf("%s %d", r.Book, r.Chapter)
}

func (r Reference) String() string {
	switch {
	case r.VerseStart == 0:
		return r.ChapterKey()
	case r.VerseEnd == r.VerseStart:
		return fmt.Sprintf("%s:%d", r.ChapterKey(), r.VerseStart)
	default:
		return fmt.Sprintf("%s:%d-%d", r.ChapterKey(), r.VerseStart, r.VerseEnd)
	}
}

// Contains reports whether a verse number falls in the referenced range
func (r Reference) Contains(verse int) bool {
	return r.VerseStart == 0 || (verse >= r.VerseStart && verse <= r.VerseEnd)
}
