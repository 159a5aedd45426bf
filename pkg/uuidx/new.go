package uuidx

import "github.com/google/uuid"

// New generates a time-ordered UUID (version 7) and panics if generation
// fails. Entry and tool-call ids across the bridge are v7 so that lexical
// order follows creation order.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString generates a version 7 UUID and returns its string form.
func NewString() string {
	return New().String()
}
