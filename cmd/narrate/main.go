// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command narrate plays a scripture passage in the terminal: verses are
// printed one at a time with a separator tone between them.
//
//	narrate -ref "Salmos 23" -realtime
//	narrate -file capitulo.txt -lang en
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/danielhkuo/vivendo-na-fe/catalog"
	"github.com/danielhkuo/vivendo-na-fe/narration"
	"github.com/danielhkuo/vivendo-na-fe/scripture"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, http.DefaultClient); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		slog.Error("narration failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, httpClient *http.Client) error {
	fs := flag.NewFlagSet("narrate", flag.ContinueOnError)
	fs.SetOutput(out)

	ref := fs.String("ref", "", "Passage reference, e.g. \"João 3\"")
	file := fs.String("file", "", "Narrate text from a file instead of looking it up")
	apiURL := fs.String("api", "https://bible-api.com", "Scripture API base URL")
	translation := fs.String("translation", "almeida", "Scripture translation")
	lang := fs.String("lang", "pt", "Narration language code")
	realtime := fs.Bool("realtime", false, "Hold each step for its estimated duration")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*ref == "") == (*file == "") {
		return errors.New("exactly one of -ref or -file is required")
	}

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	var (
		label    string
		segments []narration.Segment
	)
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		label = *file
		segments = narration.Split(string(data))
	} else {
		passage := scripture.NewClient(*apiURL, *translation, cat, httpClient).Lookup(ctx, *ref)
		label = passage.Reference
		switch passage.Source {
		case scripture.SourcePlaceholder:
			fmt.Fprintln(out, passage.Text)
			return nil
		case scripture.SourceFallback:
			fmt.Fprintf(out, "(%s)\n", passage.Source)
		}
		segments = narration.FromPassage(passage)
	}

	language := cat.Language(*lang)
	opts := narration.DefaultOptions()
	if language.Voice != "" {
		opts.Voice = language.Voice
	}
	plan := narration.BuildPlan(label, segments, opts)

	fmt.Fprintf(out, "%s · %s · %s\n%s\n", plan.Reference, language.Name, plan.Voice, strings.Repeat("─", 40))

	player := &narration.Player{}
	return player.Play(ctx, plan, &narration.TextSpeaker{W: out, Realtime: *realtime})
}
