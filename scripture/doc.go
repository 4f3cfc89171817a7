// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scripture looks up Bible passages by free-text reference.

The verse API is bible-api.com compatible:

	GET {base}/{reference}?translation=almeida

A Passage always comes back. When the API is unreachable, answers non-200
or returns no verses, the catalog's built-in chapters are used (keyed
"<book> <chapter>", e.g. "Salmos 23"); anything else gets Placeholder.
Passage.Source tells the three cases apart.

Keywords are the distinct words of five or more letters, at most eight.
Parallels are up to three popular verses from a different book.
*/
package scripture
