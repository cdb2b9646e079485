package world

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// stateDigest hashes the canonical save document. Two worlds that
// stepped through the same inputs produce the same digest.
func (w *World) stateDigest() string {
	save := w.ExportSave(w.tick.Load())
	b, err := json.Marshal(save)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
