package common

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID represents a unique identifier
type ID string

// NewID generates a new unique identifier
func NewID() ID {
	return ID(uuid.New().String())
}

// IsValid checks if the ID is a valid UUID
func (id ID) IsValid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

// String returns the string representation of the ID
func (id ID) String() string {
	return string(id)
}

// MarshalJSON implements json.Marshaler
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

// UserID identifies a user by their messaging phone number (digits only,
// country code included, no leading '+').
type UserID string

// String returns the string representation of the UserID
func (u UserID) String() string {
	return string(u)
}

// IsValid reports whether the UserID looks like a phone number
func (u UserID) IsValid() bool {
	if len(u) < 7 || len(u) > 15 {
		return false
	}
	for _, r := range u {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MessageDirection indicates whether a conversation entry was sent by the
// user or by the assistant.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// String returns the string representation of MessageDirection
func (d MessageDirection) String() string {
	return string(d)
}

// IsValid checks if the MessageDirection is valid
func (d MessageDirection) IsValid() bool {
	switch d {
	case DirectionInbound, DirectionOutbound:
		return true
	default:
		return false
	}
}

// Common error types
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
}

type InternalError struct {
	Message string
	Cause   error
}

func (e InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s (caused by: %v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e InternalError) Unwrap() error {
	return e.Cause
}
