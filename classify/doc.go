// Package classify provides rule-based query classification for smart-home
// queries.
//
// The classifier is built from static pattern tables (see tables.go): intent
// regex groups, an ordered domain check list, an action priority list,
// attribute keywords, and a small synonym table for refinement. Keeping the
// tables as data makes new patterns additive and the classifier trivially
// unit-testable without any I/O.
//
// The only external dependency is an area-name lookup via the directory,
// used for entity-filter extraction; it degrades to "no area filter" when
// the directory is unreachable.
package classify
