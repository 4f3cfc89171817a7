// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scripture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/vivendo-na-fe/catalog"
)

// Where a passage's text came from
const (
	SourceAPI         = "api"
	SourceFallback    = "fallback"
	SourcePlaceholder = "placeholder"
)

// Placeholder is shown when neither the API nor the built-in text has the passage
const Placeholder = "Texto não disponível no momento. Tente novamente mais tarde."

var errEmptyPassage = errors.New("verse API returned no verses")

type Verse struct {
	Book    string `json:"book_name"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// Passage is the result of a lookup. It is always displayable.
type Passage struct {
	Reference   string          `json:"reference"`
	Text        string          `json:"text"`
	Verses      []Verse         `json:"verses"`
	Translation string          `json:"translation,omitempty"`
	Keywords    []string        `json:"keywords"`
	Parallels   []catalog.Verse `json:"parallels"`
	Source      string          `json:"source"`
}

// apiResponse is the bible-api.com payload
type apiResponse struct {
	Reference       string  `json:"reference"`
	Verses          []Verse `json:"verses"`
	Text            string  `json:"text"`
	TranslationName string  `json:"translation_name"`
}

// Client looks passages up in the verse API and degrades to built-in text
type Client struct {
	http        *http.Client
	baseURL     string
	translation string
	catalog     *catalog.Catalog
	timeout     time.Duration
	group       singleflight.Group
}

func NewClient(baseURL, translation string, cat *catalog.Catalog, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		translation: translation,
		catalog:     cat,
		timeout:     8 * time.Second,
	}
}

// Lookup never fails: API errors fall back to the built-in chapters and
// then to the placeholder text. Concurrent lookups of the same reference
// share one API call.
func (c *Client) Lookup(ctx context.Context, ref string) Passage {
	ref = strings.Join(strings.Fields(ref), " ")

	v, _, _ := c.group.Do(strings.ToLower(ref), func() (any, error) {
		// Detached so one caller going away does not fail the others
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.lookup(fetchCtx, ref), nil
	})

	p := v.(Passage)
	// Slices are shared between callers of the same flight
	p.Verses = slices.Clone(p.Verses)
	p.Keywords = slices.Clone(p.Keywords)
	p.Parallels = slices.Clone(p.Parallels)
	return p
}

func (c *Client) lookup(ctx context.Context, ref string) Passage {
	parsed, parseErr := ParseReference(ref)

	passage, err := c.fetch(ctx, ref)
	if err != nil {
		slog.Warn("verse API lookup failed", "ref", ref, "error", err)
		passage = c.fallback(ref, parsed, parseErr == nil)
	}

	if passage.Source != SourcePlaceholder {
		passage.Keywords = Keywords(passage.Text)
	} else {
		passage.Keywords = []string{}
	}

	if parseErr == nil {
		passage.Parallels = Parallels(parsed.Book, c.catalog.PopularVerses)
	} else {
		passage.Parallels = []catalog.Verse{}
	}
	return passage
}

func (c *Client) fetch(ctx context.Context, ref string) (Passage, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(ref) + "?translation=" + url.QueryEscape(c.translation)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Passage{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Passage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Passage{}, fmt.Errorf("verse API returned %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return Passage{}, fmt.Errorf("invalid verse API response: %w", err)
	}
	if len(body.Verses) == 0 {
		return Passage{}, errEmptyPassage
	}

	for i := range body.Verses {
		body.Verses[i].Text = strings.TrimSpace(body.Verses[i].Text)
	}

	label := body.Reference
	if label == "" {
		label = ref
	}
	return Passage{
		Reference:   label,
		Text:        strings.TrimSpace(body.Text),
		Verses:      body.Verses,
		Translation: body.TranslationName,
		Source:      SourceAPI,
	}, nil
}

// fallback serves the built-in chapter when it has the referenced verses
func (c *Client) fallback(ref string, parsed Reference, ok bool) Passage {
	if ok {
		if chapter, found := c.catalog.FallbackChapter(parsed.Book, parsed.Chapter); found {
			var verses []Verse
			for _, v := range chapter {
				if parsed.Contains(v.Verse) {
					verses = append(verses, Verse{Book: parsed.Book, Chapter: parsed.Chapter, Verse: v.Verse, Text: v.Text})
				}
			}
			// Verse outside the built-in excerpt: show the excerpt
			if len(verses) == 0 {
				for _, v := range chapter {
					verses = append(verses, Verse{Book: parsed.Book, Chapter: parsed.Chapter, Verse: v.Verse, Text: v.Text})
				}
			}
			return Passage{
				Reference: parsed.String(),
				Text:      joinVerses(verses),
				Verses:    verses,
				Source:    SourceFallback,
			}
		}
	}

	label := ref
	if label == "" {
		label = "Referência desconhecida"
	}
	return Passage{
		Reference: label,
		Text:      Placeholder,
		Verses:    []Verse{},
		Source:    SourcePlaceholder,
	}
}

func joinVerses(verses []Verse) string {
	parts := make([]string, len(verses))
	for i, v := range verses {
		parts[i] = v.Text
	}
	return strings.Join(parts, " ")
}
