package domain

import "github.com/google/uuid"

// NewID returns a random, opaque identifier. Identifiers carry no ordering.
func NewID() string {
	return uuid.NewString()
}
