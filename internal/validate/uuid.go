package validate

import "github.com/google/uuid"

// parseUUID accepts both hyphenated and bare-hex UUID string forms.
func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
