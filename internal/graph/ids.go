package graph

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// NewID returns a deterministic node ID, generalizing the
// file|line|kind|name|signature-hash scheme from the teacher's
// internal/parser/symbol_id.go to every node variant, not just
// function/method symbols: disambiguator is typically a signature,
// a byte offset, or an ordinal index for nodes with no natural signature
// (statements, literals).
func NewID(file string, line int, kind Kind, name string, disambiguator string) string {
	base := fmt.Sprintf("%s|%d|%s|%s", file, line, kind, name)
	if disambiguator == "" {
		return base
	}
	h := sha1.Sum([]byte(disambiguator))
	return fmt.Sprintf("%s|%s", base, hex.EncodeToString(h[:4]))
}
