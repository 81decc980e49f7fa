package cosense

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newLineID builds a line id the way the Cosense editor does: eight hex digits of
// the unix time, the last six characters of the author's user id, four zeros and six
// random hex digits.
func newLineID(userID string, now time.Time) string {
	suffix := userID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	var b [3]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%08x%s0000%s", now.Unix(), suffix, hex.EncodeToString(b[:]))
}
