package ast

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTree is the domain prefix for content-addressed tree identity.
// The version suffix enables future encoding migration.
const DomainTree = "piper/tree/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TreeID computes the content-addressed identity of a tree: the hex
// SHA-256 of its canonical encoding under the tree domain. Equal trees
// get equal IDs in every process, so the ID is a stable storage key.
func TreeID(item Item) (string, error) {
	canonical, err := MarshalCanonicalItem(item)
	if err != nil {
		return "", fmt.Errorf("TreeID: %w", err)
	}
	return hashWithDomain(DomainTree, canonical), nil
}
