// utils/token.go
package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewAccessToken generates a participant capability token: a random UUID
// with the dashes stripped. Collision probability is negligible, so no
// retry loop is needed on top.
func NewAccessToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
