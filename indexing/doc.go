// Package indexing builds the entity vector index.
//
// For each entity it fetches live state from the directory, renders a
// domain-keyed natural-language description, embeds it, and upserts the
// vector keyed by entity id. A blake2b fingerprint of the description is
// stored in metadata so re-indexing an unchanged entity skips the
// embedding call.
//
// Batch runs dispatch to a bounded ants worker pool in fixed-size chunks
// with per-item error isolation: the batch always completes and reports
// aggregate counts plus a per-item result list.
package indexing
