// Package checksum fingerprints page content for the write journal without
// storing the content itself.
package checksum

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Lines returns the hex-encoded SHA-256 digest of a line sequence. Each line is
// length-prefixed so that ["a\nb"] and ["a", "b"] differ.
func Lines(lines []string) string {
	h := sha256.New()
	var size [8]byte
	for _, l := range lines {
		binary.BigEndian.PutUint64(size[:], uint64(len(l)))
		h.Write(size[:])
		h.Write([]byte(l))
	}
	return hex.EncodeToString(h.Sum(nil))
}
