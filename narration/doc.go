// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package narration turns chapter text into an ordered playback plan and
plays it through a Speaker.

	segments := narration.FromPassage(passage)    // or narration.Split(text)
	plan := narration.BuildPlan(passage.Reference, segments, narration.DefaultOptions())
	err := (&narration.Player{}).Play(ctx, plan, speaker)

Plans alternate speech steps with a short tone (440 Hz, 300 ms by
default) between verses. Speech durations are estimated from word count
for display only: the Player starts the next step when the Speaker calls
done, never on a timer, so slow or fast synthesis cannot desynchronise
tones and verses. Cancelling ctx stops the speaker. Playback position is
not persisted.
*/
package narration
