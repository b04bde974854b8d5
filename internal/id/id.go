// Package id issues the short, human-typable ids used for documents and
// deadlines, e.g. DOC-7KQ2M9XA.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Unambiguous upper-case alphabet: no 0/O or 1/I/L.
const (
	alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"
	keyLen   = 8
)

type EntityType string

const (
	Document EntityType = "DOC"
	Deadline EntityType = "DL"
)

var allTypes = []EntityType{Document, Deadline}

func New(t EntityType) (string, error) {
	key, err := gonanoid.Generate(alphabet, keyLen)
	if err != nil {
		return "", fmt.Errorf("generating %s id: %w", t, err)
	}
	return string(t) + "-" + key, nil
}

// TypeOf returns the entity type an id was issued for.
func TypeOf(ref string) (EntityType, error) {
	prefix, key, ok := strings.Cut(ref, "-")
	if !ok {
		return "", fmt.Errorf("malformed id %q", ref)
	}
	if len(key) != keyLen || strings.Trim(key, alphabet) != "" {
		return "", fmt.Errorf("malformed id %q", ref)
	}
	for _, t := range allTypes {
		if string(t) == prefix {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown id prefix %q", prefix)
}

// Is reports whether ref is a well-formed id of type t.
func Is(ref string, t EntityType) bool {
	got, err := TypeOf(ref)
	return err == nil && got == t
}
