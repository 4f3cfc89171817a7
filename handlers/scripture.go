// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/vivendo-na-fe/catalog"
	"github.com/danielhkuo/vivendo-na-fe/middleware"
	"github.com/danielhkuo/vivendo-na-fe/narration"
	"github.com/danielhkuo/vivendo-na-fe/scripture"
)

// PassageLookup is satisfied by *scripture.Client
type PassageLookup interface {
	Lookup(ctx context.Context, ref string) scripture.Passage
}

// ScriptureHandler serves verse lookups and the Bible audio surface
type ScriptureHandler struct {
	lookup  PassageLookup
	catalog *catalog.Catalog
}

func NewScriptureHandler(lookup PassageLookup, cat *catalog.Catalog) *ScriptureHandler {
	return &ScriptureHandler{lookup: lookup, catalog: cat}
}

// GetPassage handles GET /scripture?ref=
// Lookup failures degrade to built-in text, so this only fails on a missing ref.
func (h *ScriptureHandler) GetPassage(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("ref"))
	if ref == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ref is required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.lookup.Lookup(r.Context(), ref))
}

type audioCatalogResponse struct {
	Languages []catalog.Language `json:"languages"`
	Books     []catalog.Book     `json:"books"`
	Resources []catalog.Resource `json:"resources"`
}

// AudioCatalog handles GET /audio/catalog
func (h *ScriptureHandler) AudioCatalog(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, audioCatalogResponse{
		Languages: h.catalog.Languages,
		Books:     h.catalog.Books,
		Resources: h.catalog.Resources,
	})
}

type narrationResponse struct {
	narration.Plan
	Language catalog.Language `json:"language"`
	Source   string           `json:"source"`
}

// Narration handles GET /audio/narration?ref=&lang=
// Returns the ordered playback plan for a chapter: speech per verse with a
// separator tone in between.
func (h *ScriptureHandler) Narration(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("ref"))
	if ref == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ref is required")
		return
	}

	lang := h.catalog.Language(r.URL.Query().Get("lang"))
	passage := h.lookup.Lookup(r.Context(), ref)

	opts := narration.DefaultOptions()
	if lang.Voice != "" {
		opts.Voice = lang.Voice
	}

	// Nothing to read when only the placeholder is available
	var segments []narration.Segment
	if passage.Source != scripture.SourcePlaceholder {
		segments = narration.FromPassage(passage)
	}

	middleware.JSONResponse(w, http.StatusOK, narrationResponse{
		Plan:     narration.BuildPlan(passage.Reference, segments, opts),
		Language: lang,
		Source:   passage.Source,
	})
}
