package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/roach88/lexsync/internal/instrument"
)

// DomainSnapshot separates snapshot digests from any other hash.
// Version suffix enables future algorithm migration.
const DomainSnapshot = "lexsync/snapshot/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SnapshotDigest computes a content digest over the instruments using
// RFC 8785 canonical JSON, so equal snapshots digest equally regardless of
// formatting.
func SnapshotDigest(items []instrument.Instrument) (string, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("SnapshotDigest: failed to marshal: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("SnapshotDigest: failed to canonicalize: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}
