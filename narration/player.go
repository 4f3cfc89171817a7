// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package narration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Speaker is the playback capability: speech synthesis or a tone generator.
// Start begins a step and must call done exactly once when it finishes or
// fails. Stop abandons whatever is playing; done may then never be called.
type Speaker interface {
	Start(step Step, done func(error))
	Stop()
}

// Player runs a plan one step at a time, starting each step only after the
// previous one reported completion
type Player struct {
	// OnStep is called before each step starts
	OnStep func(index int, step Step)
}

// Play blocks until the plan finishes, a step fails, or ctx is cancelled.
// Cancellation stops the speaker and returns ctx.Err().
func (p *Player) Play(ctx context.Context, plan Plan, sp Speaker) error {
	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.OnStep != nil {
			p.OnStep(i, step)
		}

		finished := make(chan error, 1)
		var once sync.Once
		sp.Start(step, func(err error) {
			once.Do(func() { finished <- err })
		})

		select {
		case err := <-finished:
			if err != nil {
				return fmt.Errorf("step %d (%s): %w", i, step.Kind, err)
			}
		case <-ctx.Done():
			sp.Stop()
			return ctx.Err()
		}
	}
	return nil
}

// TextSpeaker prints steps to a writer. With Realtime set it holds each
// step for its estimated duration, otherwise steps complete immediately.
type TextSpeaker struct {
	W        io.Writer
	Realtime bool

	mu    sync.Mutex
	timer *time.Timer
}

func (t *TextSpeaker) Start(step Step, done func(error)) {
	var err error
	switch step.Kind {
	case StepTone:
		_, err = fmt.Fprintf(t.W, "  ♪ %.0f Hz (%d ms)\n", step.FrequencyHz, step.DurationMS)
	default:
		_, err = fmt.Fprintf(t.W, "%3d  %s\n", step.Verse, step.Text)
	}
	if err != nil || !t.Realtime {
		done(err)
		return
	}

	t.mu.Lock()
	t.timer = time.AfterFunc(step.Duration(), func() { done(nil) })
	t.mu.Unlock()
}

func (t *TextSpeaker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
}
