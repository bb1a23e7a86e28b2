// Package selection resolves operator input (platform names, fuzzy game
// queries) against a loaded catalog.
//
// Platform names are compared case-folded so "snes" selects "SNES". Game
// queries are ranked by token fingerprint cosine similarity, mirroring the
// fuzzy search the interactive workflow offers.
package selection
