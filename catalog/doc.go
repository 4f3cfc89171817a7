// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package catalog holds the site's static content: radio stations, the
// default program grid, audio languages and books, popular verses, built-in
// fallback chapters and study resource links. The data lives in
// catalog.yaml and is compiled into the binary.
package catalog
