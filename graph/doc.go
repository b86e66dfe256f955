// Package graph maintains the entity relationship graph.
//
// Edges are typed links (in_area, from_device, device_parent, ...) derived
// from directory snapshots and stored as rows in the entity_relationships
// collection: the edge text "<source> <type> <target>" is embedded and the
// edge fields become metadata. There is no native graph index; queries are
// a best-effort combination of an embedded text query and equality metadata
// filters, so treat results as candidates, not a complete edge list.
package graph
