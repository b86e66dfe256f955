package ai

// ModelDimensions maps known embedding model identifiers to their fixed
// vector lengths. Dimensions are declared here rather than introspected from
// provider output so that collection schemas stay stable.
var ModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"embeddinggemma":         768,
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
}
