package domain

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewID returns a lowercased ULID. IDs sort lexicographically by creation
// time, which keeps job and transcript listings in submission order.
func NewID() string {
	return strings.ToLower(ulid.Make().String())
}
