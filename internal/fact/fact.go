// Package fact implements the engine's type-indexed working memory.
//
// Facts are opaque values of any type. The engine requires structural
// equality and hashing so that duplicate derived facts are suppressed;
// since Go has no built-in structural-equality operator for values that
// hold slices or maps, digest computes a stable key from a canonical JSON
// encoding of the value plus its concrete type name.
package fact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
)

// Fact is an opaque value produced or consumed by rules.
type Fact = any

// Digest returns a stable, type-qualified key for f, used for de-duplication
// in working memory, alpha-node memories, and output-node fired_for sets.
func Digest(f Fact) (string, error) {
	t := reflect.TypeOf(f)
	typeName := "<nil>"
	if t != nil {
		typeName = t.String()
	}

	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("fact: compute digest for %s: %w", typeName, err)
	}

	sum := sha256.Sum256(append([]byte(typeName+"|"), data...))
	return typeName + ":" + hex.EncodeToString(sum[:]), nil
}

// TupleDigest combines the digests of an input tuple into a single key,
// used by output nodes to enforce the at-most-once-per-input-tuple
// invariant.
func TupleDigest(tuple []Fact) (string, error) {
	h := sha256.New()
	for _, f := range tuple {
		d, err := Digest(f)
		if err != nil {
			return "", err
		}
		h.Write([]byte(d))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
