package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateBookingReference returns "BK" + the last 6 digits of the unix
// millisecond timestamp + 6 random base36 characters
func GenerateBookingReference(now time.Time) (string, error) {
	millis := fmt.Sprintf("%06d", now.UnixMilli())
	suffix, err := randomBase36(6)
	if err != nil {
		return "", err
	}
	return "BK" + millis[len(millis)-6:] + suffix, nil
}

// GenerateTransactionID returns "TXN" + 12 uppercase hex characters of a random UUID
func GenerateTransactionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN" + strings.ToUpper(hex[:12])
}

func randomBase36(n int) (string, error) {
	max := big.NewInt(int64(len(base36Alphabet)))
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random reference: %w", err)
		}
		sb.WriteByte(base36Alphabet[idx.Int64()])
	}
	return sb.String(), nil
}
