// Package history records resolved queries and personalizes ranking.
//
// Every recorded query becomes a row in the query_history collection: the
// raw query text is embedded, classification output and a time-of-day
// bucket are stored as metadata, and up to the first ten result ranks are
// kept as a compact summary. Selecting an entity bumps a per-entity counter
// in the entity_popularity collection, which BoostRanking later feeds back
// into search scores.
//
// There is no native time-range index: reads retrieve a large candidate set
// via a generic recent-queries search and filter in memory, degrading to
// empty results when the store or embedder is unavailable.
package history
