package xid

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a time-ordered identifier of the form prefix-<uuid v7>.
func New(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	if prefix == "" {
		return id.String()
	}
	return fmt.Sprintf("%s-%s", prefix, id.String())
}
