package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the SHA-256 of data as a 64-char hex string. Graph documents
// and search options are hashed this way before they become cache keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a "prefix:digest" key from the JSON encoding of parts.
// Keys built from the same parts in the same order always collide, which is
// what lets a repeated search find its earlier result.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
