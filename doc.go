// Package hearth resolves natural-language smart-home queries to entities.
//
// The Resolver wires an embedding provider, an embedded vector store, and
// the Entity Directory together, and hands out the subsystem components:
// the classifier, the indexing pipeline, the search engine, the
// relationship graph builder, and the query history tracker. Resolve runs
// the whole pipeline for one query and returns an execution plan.
package hearth
