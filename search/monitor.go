package search

import "github.com/poiesic/hearth/core"

// Monitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps and results during a search.
type Monitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	AfterVectorSearch(results []*core.SearchResult)
	Dropped(entityId, reason string)
	AfterRanking(matches []*core.RankedMatch)
	KeywordFallback(reason string)
	Finish(matches []*core.RankedMatch)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterEmbedding(_ []float32)              {}
func (n *noopMonitor) AfterVectorSearch(_ []*core.SearchResult) {}
func (n *noopMonitor) Dropped(_, _ string)                     {}
func (n *noopMonitor) AfterRanking(_ []*core.RankedMatch)      {}
func (n *noopMonitor) KeywordFallback(_ string)                {}
func (n *noopMonitor) Finish(_ []*core.RankedMatch)            {}
