package buildconfig

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// canonicalEncMode encodes with CBOR Core Deterministic Encoding: sorted map
// keys and shortest forms, so equal values always produce equal bytes.
var canonicalEncMode cbor.EncMode

func init() {
	var err error
	canonicalEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("buildconfig: CBOR encoder initialization failed: " + err.Error())
	}
}

// MarshalCanonical encodes v as deterministic CBOR.
func MarshalCanonical(v any) ([]byte, error) {
	return canonicalEncMode.Marshal(v)
}

// Fingerprint returns a hex BLAKE3 digest of the record's canonical CBOR
// encoding. Equal records have equal fingerprints, which makes the digest
// usable as a build cache key.
func Fingerprint(r *Record) (string, error) {
	if r == nil {
		return "", fmt.Errorf("fingerprint: nil record")
	}
	data, err := MarshalCanonical(r.View())
	if err != nil {
		return "", fmt.Errorf("fingerprint: encode record: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
