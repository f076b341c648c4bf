package badger

import (
	"github.com/google/uuid"
)

// ensureID assigns a UUID to an empty resource ID.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
