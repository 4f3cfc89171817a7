package narration

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/danielhkuo/vivendo-na-fe/scripture"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{
			name: "numbered verses",
			text: "1. O Senhor é o meu pastor; nada me faltará. 2. Deitar-me faz em verdes pastos,\n guia-me mansamente a águas tranquilas.",
			want: []Segment{
				{Verse: 1, Text: "O Senhor é o meu pastor; nada me faltará."},
				{Verse: 2, Text: "Deitar-me faz em verdes pastos, guia-me mansamente a águas tranquilas."},
			},
		},
		{
			name: "heading before first marker",
			text: "Salmo de Davi. 1. O Senhor é o meu pastor.",
			want: []Segment{
				{Verse: 0, Text: "Salmo de Davi."},
				{Verse: 1, Text: "O Senhor é o meu pastor."},
			},
		},
		{
			name: "empty segments dropped",
			text: "16.   17. Porque Deus enviou o seu Filho",
			want: []Segment{{Verse: 17, Text: "Porque Deus enviou o seu Filho"}},
		},
		{
			name: "no markers",
			text: "No princípio, criou Deus os céus e a terra.",
			want: []Segment{{Verse: 0, Text: "No princípio, criou Deus os céus e a terra."}},
		},
		{
			name: "blank",
			text: "  ",
			want: []Segment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.text))
		})
	}
}

func TestFromPassage(t *testing.T) {
	p := scripture.Passage{Verses: []scripture.Verse{
		{Verse: 16, Text: " Porque Deus amou o mundo "},
		{Verse: 17, Text: ""},
	}}
	assert.Equal(t, []Segment{{Verse: 16, Text: "Porque Deus amou o mundo"}}, FromPassage(p))

	p = scripture.Passage{Text: "1. Um. 2. Dois."}
	assert.Len(t, FromPassage(p), 2)
}

func TestBuildPlan(t *testing.T) {
	segments := []Segment{
		{Verse: 1, Text: strings.Repeat("palavra ", 150)},
		{Verse: 2, Text: "Deitar-me faz em verdes pastos"},
	}

	plan := BuildPlan("Salmos 23", segments, Options{})

	require.Len(t, plan.Steps, 3)
	assert.Equal(t, StepSpeech, plan.Steps[0].Kind)
	assert.Equal(t, int64(60000), plan.Steps[0].DurationMS, "150 words at 150 wpm")
	assert.Equal(t, StepTone, plan.Steps[1].Kind)
	assert.Equal(t, 440.0, plan.Steps[1].FrequencyHz)
	assert.Equal(t, 300*time.Millisecond, plan.Steps[1].Duration())
	assert.Equal(t, 2, plan.Steps[2].Verse)
	assert.Equal(t, "pt-BR", plan.Voice)

	var total int64
	for _, s := range plan.Steps {
		total += s.DurationMS
	}
	assert.Equal(t, total, plan.TotalMS)

	empty := BuildPlan("x", nil, DefaultOptions())
	assert.Empty(t, empty.Steps)
}

// asyncSpeaker completes each step from another goroutine after a
// per-kind delay, recording start order
type asyncSpeaker struct {
	mu      sync.Mutex
	started []StepKind
	active  int
	overlap bool
	delay   map[StepKind]time.Duration
	fail    int
	stopped bool
}

func (s *asyncSpeaker) Start(step Step, done func(error)) {
	s.mu.Lock()
	s.started = append(s.started, step.Kind)
	s.active++
	if s.active > 1 {
		s.overlap = true
	}
	n := len(s.started)
	s.mu.Unlock()

	go func() {
		time.Sleep(s.delay[step.Kind])
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
		if s.fail == n {
			done(errors.New("synthesis error"))
			return
		}
		done(nil)
	}()
}

func (s *asyncSpeaker) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

func TestPlayerSequencesSteps(t *testing.T) {
	defer goleak.VerifyNone(t)

	plan := BuildPlan("Salmos 23", []Segment{{1, "a"}, {2, "b"}, {3, "c"}}, DefaultOptions())
	// Speech slower than tones must not let the next tone start early
	sp := &asyncSpeaker{delay: map[StepKind]time.Duration{StepSpeech: 20 * time.Millisecond, StepTone: time.Millisecond}}

	var seen []int
	player := &Player{OnStep: func(i int, _ Step) { seen = append(seen, i) }}
	require.NoError(t, player.Play(context.Background(), plan, sp))

	assert.Equal(t, []StepKind{StepSpeech, StepTone, StepSpeech, StepTone, StepSpeech}, sp.started)
	assert.False(t, sp.overlap, "steps never overlap")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)

	time.Sleep(5 * time.Millisecond)
}

func TestPlayerStopsOnError(t *testing.T) {
	plan := BuildPlan("x", []Segment{{1, "a"}, {2, "b"}}, DefaultOptions())
	sp := &asyncSpeaker{fail: 2, delay: map[StepKind]time.Duration{}}

	err := (&Player{}).Play(context.Background(), plan, sp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (tone)")
	assert.Len(t, sp.started, 2)
}

func TestPlayerCancel(t *testing.T) {
	plan := BuildPlan("x", []Segment{{1, "a"}, {2, "b"}}, DefaultOptions())
	sp := &asyncSpeaker{delay: map[StepKind]time.Duration{StepSpeech: time.Hour}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := (&Player{}).Play(ctx, plan, sp)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, sp.stopped)
	assert.Len(t, sp.started, 1)
}

func TestTextSpeaker(t *testing.T) {
	var buf bytes.Buffer
	plan := BuildPlan("João 3", []Segment{{16, "Porque Deus amou o mundo"}, {17, "Porque Deus enviou"}}, DefaultOptions())

	require.NoError(t, (&Player{}).Play(context.Background(), plan, &TextSpeaker{W: &buf}))

	assert.Equal(t, " 16  Porque Deus amou o mundo\n  ♪ 440 Hz (300 ms)\n 17  Porque Deus enviou\n", buf.String())
}

func TestTextSpeakerRealtimeCancel(t *testing.T) {
	var buf bytes.Buffer
	plan := BuildPlan("x", []Segment{{1, strings.Repeat("palavra ", 300)}}, DefaultOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := (&Player{}).Play(ctx, plan, &TextSpeaker{W: &buf, Realtime: true})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
