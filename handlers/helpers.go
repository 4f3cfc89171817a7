// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"html"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/danielhkuo/vivendo-na-fe/middleware"
	"github.com/danielhkuo/vivendo-na-fe/models"
)

// markdown renders sermon and theme bodies. Raw HTML in the source is
// escaped because WithUnsafe is not set.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("failed to render markdown", "error", err)
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return buf.String()
}

// decodeRequest parses, trims and validates a JSON body.
// It writes the 400 response itself and reports whether the handler may continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.ParseJSONBody(r, v); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	models.TrimFields(v)
	if err := models.Validate(v); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// parseLimit reads ?limit=, falling back to def and capping at MaxListLimit
func parseLimit(r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	if n > models.MaxListLimit {
		n = models.MaxListLimit
	}
	return n, true
}

// deletedRecord is the payload of DELETE changes
type deletedRecord struct {
	ID string `json:"id"`
}
