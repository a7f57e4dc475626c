package anki

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"strconv"
)

// fieldChecksum computes Anki's duplicate-detection checksum for a note's
// sort field: the first 8 hex digits of the SHA1 of the field text, read as
// a base-16 integer. Import-side dedupe compares these values bit for bit,
// so the algorithm must not drift.
func fieldChecksum(field string) int64 {
	digest := sha1.Sum([]byte(field))
	hex := fmt.Sprintf("%x", digest)
	n, _ := strconv.ParseInt(hex[:8], 16, 64)
	return n
}

// base91Table is the alphabet Anki uses for note GUIDs.
const base91Table = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&()*+,-./:;<=>?@[]^_`{|}~"

// newGUID returns a fresh note GUID: a random 64-bit value rendered in
// Anki's base-91 alphabet.
func newGUID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; if it somehow
		// does, a zero guid still imports, it just weakens dedupe.
		return "a"
	}
	n := binary.BigEndian.Uint64(buf[:])

	var out []byte
	for n > 0 {
		out = append([]byte{base91Table[n%91]}, out...)
		n /= 91
	}
	if len(out) == 0 {
		return string(base91Table[0])
	}
	return string(out)
}
