package badger

import "fmt"

// Key prefixes for different data types
const (
	collectionMetaPrefix = "vecol"
	vectorRecordPrefix   = "vecrec"
)

// makeCollectionKey generates a key for a collection's metadata record.
func makeCollectionKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", collectionMetaPrefix, name))
}

// makeRecordKey generates a key for a vector record within a collection.
// Format: prefix:collection:id
func makeRecordKey(collection, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", vectorRecordPrefix, collection, id))
}

// makeRecordPrefix generates the iteration prefix for all records in a
// collection.
func makeRecordPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", vectorRecordPrefix, collection))
}
