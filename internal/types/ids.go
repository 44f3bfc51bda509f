package types

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// PresetID represents a UUIDv7 preset identifier.
type PresetID string

// NewPresetID generates a UUIDv7 preset identifier.
// Time-ordered IDs keep listings in creation order without a sort column.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewPresetID() PresetID {
	return PresetID(uuid.Must(uuid.NewV7()).String())
}

// ParsePresetID validates and converts a string to PresetID.
func ParsePresetID(s string) (PresetID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return PresetID(s), nil
}

// PresetIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func PresetIDTime(id PresetID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}

// NewSecretID returns a fresh secret identifier: a UUIDv7 without hyphens
// (32 lowercase hex chars), the format HMAC secrets and API keys share.
func NewSecretID() string {
	u := uuid.Must(uuid.NewV7())
	return hex.EncodeToString(u[:])
}
