package monitor

import "hash/fnv"

// Fingerprint hashes a payload's canonical bytes (UTF-8 for text and path
// lists, raw bytes for images) into a 64-bit value for cheap novelty
// comparison. FNV-1a: fast, no allocation beyond the hasher, and collisions
// only cost a missed capture, never corruption.
func Fingerprint(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
