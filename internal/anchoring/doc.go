// Package anchoring binds comments to character ranges of a paper.
//
// A Region is the bounded content area a reader selects text in. A Session
// attaches to exactly one region for its lifetime, turns selection events
// into rune-offset ranges, publishes anchored comments and keeps the
// comments it published. Nothing here listens process-wide: a detached
// session receives no events and forgets its comments.
//
// Offsets count runes of the region's rendered text, not bytes of the raw
// source.
package anchoring
