// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scripture

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danielhkuo/vivendo-na-fe/catalog"
)

const (
	keywordMinLength = 5
	maxKeywords      = 8
	maxParallels     = 3
)

// Keywords returns the distinct words of at least five letters in order of
// first appearance. Punctuation is stripped; case is kept from the first
// occurrence.
func Keywords(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	seen := make(map[string]bool)
	keywords := []string{}
	for _, w := range words {
		w = strings.Trim(w, "-")
		if utf8.RuneCountInString(w) < keywordMinLength {
			continue
		}
		key := strings.ToLower(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, w)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// Parallels picks popular verses from other books than the one looked up
func Parallels(book string, popular []catalog.Verse) []catalog.Verse {
	out := []catalog.Verse{}
	for _, v := range popular {
		if strings.EqualFold(v.Book, book) {
			continue
		}
		out = append(out, v)
		if len(out) == maxParallels {
			break
		}
	}
	return out
}
