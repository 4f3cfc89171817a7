// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import "encoding/json"

// Visibility maps a table to the boolean column that makes its rows public,
// e.g. {"sermon_outlines": "is_published"}. Tables not listed are public.
type Visibility map[string]string

// Apply returns the change as a public subscriber may see it. An INSERT of
// a hidden row is withheld; an UPDATE that hides a row becomes a DELETE
// carrying only the id so clients drop it from their views.
func (v Visibility) Apply(c Change) (Change, bool) {
	flag, gated := v[c.Table]
	if !gated || c.Type == Delete || c.Type == Reset {
		return c, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Record, &fields); err != nil {
		return c, false
	}
	if string(fields[flag]) == "true" {
		return c, true
	}
	if c.Type == Insert {
		return c, false
	}

	hidden := c
	hidden.Type = Delete
	hidden.Record, _ = json.Marshal(map[string]string{"id": c.ID})
	return hidden, true
}
