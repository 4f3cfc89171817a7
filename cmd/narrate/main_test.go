package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capitulo.txt")
	require.NoError(t, os.WriteFile(path, []byte("1. No princípio era o Verbo. 2. Ele estava no princípio com Deus."), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), []string{"-file", path}, &out, nil)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Português · pt-BR")
	assert.Contains(t, text, "  1  No princípio era o Verbo.")
	assert.Contains(t, text, "♪ 440 Hz (300 ms)")
	assert.Contains(t, text, "  2  Ele estava no princípio com Deus.")
	assert.Equal(t, 1, strings.Count(text, "♪"))
}

func TestRun_ReferenceFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"-ref", "João 3", "-api", srv.URL, "-lang", "en"}, &out, srv.Client())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "(fallback)")
	assert.Contains(t, text, "en-US")
	assert.Contains(t, text, "Porque Deus amou o mundo")
}

func TestRun_Arguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"neither source", nil},
		{"both sources", []string{"-ref", "Salmos 23", "-file", "x.txt"}},
		{"unknown flag", []string{"-speed", "2"}},
		{"missing file", []string{"-file", filepath.Join(os.TempDir(), "does-not-exist.txt")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(context.Background(), tt.args, &out, nil))
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capitulo.txt")
	require.NoError(t, os.WriteFile(path, []byte("1. Um. 2. Dois."), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, []string{"-file", path}, &out, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_UnknownPassageIsNotNarrated(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"-ref", "Obadias 1:1", "-api", srv.URL}, &out, srv.Client())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Texto não disponível")
	assert.NotContains(t, text, "  0  ")
	assert.NotContains(t, text, "─")
}
