package tool

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateRandomSecret returns a 64 hex char secret for token signing.
func GenerateRandomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return strings.ReplaceAll(GenerateRandomUUID()+GenerateRandomUUID(), "-", "") // fallback
	}
	return hex.EncodeToString(b)
}
