// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package narration

import (
	"strings"
	"time"
)

type StepKind string

const (
	StepTone   StepKind = "tone"
	StepSpeech StepKind = "speech"
)

// Step is one unit of playback. Durations are estimates for display; the
// player waits for the speaker to report completion.
type Step struct {
	Kind        StepKind `json:"kind"`
	Verse       int      `json:"verse,omitempty"`
	Text        string   `json:"text,omitempty"`
	FrequencyHz float64  `json:"frequency_hz,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
}

func (s Step) Duration() time.Duration {
	return time.Duration(s.DurationMS) * time.Millisecond
}

type Plan struct {
	Reference string `json:"reference"`
	Voice     string `json:"voice"`
	Steps     []Step `json:"steps"`
	TotalMS   int64  `json:"total_ms"`
}

type Options struct {
	Voice          string
	ToneHz         float64
	ToneDuration   time.Duration
	WordsPerMinute int
}

// DefaultOptions narrates in Portuguese with a 440 Hz, 300 ms tone between verses
func DefaultOptions() Options {
	return Options{
		Voice:          "pt-BR",
		ToneHz:         440,
		ToneDuration:   300 * time.Millisecond,
		WordsPerMinute: 150,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Voice == "" {
		o.Voice = d.Voice
	}
	if o.ToneHz <= 0 {
		o.ToneHz = d.ToneHz
	}
	if o.ToneDuration <= 0 {
		o.ToneDuration = d.ToneDuration
	}
	if o.WordsPerMinute <= 0 {
		o.WordsPerMinute = d.WordsPerMinute
	}
	return o
}

// BuildPlan alternates speech steps with a separator tone between verses
func BuildPlan(reference string, segments []Segment, opts Options) Plan {
	opts = opts.withDefaults()

	plan := Plan{Reference: reference, Voice: opts.Voice, Steps: []Step{}}
	for i, seg := range segments {
		if i > 0 {
			plan.Steps = append(plan.Steps, Step{
				Kind:        StepTone,
				FrequencyHz: opts.ToneHz,
				DurationMS:  opts.ToneDuration.Milliseconds(),
			})
		}
		plan.Steps = append(plan.Steps, Step{
			Kind:       StepSpeech,
			Verse:      seg.Verse,
			Text:       seg.Text,
			DurationMS: speechDuration(seg.Text, opts.WordsPerMinute).Milliseconds(),
		})
	}

	for _, s := range plan.Steps {
		plan.TotalMS += s.DurationMS
	}
	return plan
}

func speechDuration(text string, wpm int) time.Duration {
	words := len(strings.Fields(text))
	return time.Duration(words) * time.Minute / time.Duration(wpm)
}
