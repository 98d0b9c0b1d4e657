package service

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// DefaultIDGenerator implements ports.IDGenerator. Account numbers are
// derived from the holder name (first three letters, uppercased, padded
// with X when the name is short) plus four random digits. Transaction
// ids are TXN-prefixed UUIDs.
type DefaultIDGenerator struct{}

// NewIDGenerator creates a DefaultIDGenerator.
func NewIDGenerator() *DefaultIDGenerator {
	return &DefaultIDGenerator{}
}

// AccountNumber derives a candidate account number from the holder name.
// The result always matches ^[A-Z]{3}[0-9]{4}$; uniqueness is the
// caller's concern.
func (g *DefaultIDGenerator) AccountNumber(holderName string) string {
	var prefix strings.Builder
	for _, r := range holderName {
		r = unicode.ToUpper(r)
		if r < 'A' || r > 'Z' {
			continue
		}
		prefix.WriteRune(r)
		if prefix.Len() >= 3 {
			break
		}
	}
	for prefix.Len() < 3 {
		prefix.WriteByte('X')
	}
	return fmt.Sprintf("%s%04d", prefix.String(), rand.IntN(10000))
}

// TransactionID returns a unique TXN-prefixed id.
func (g *DefaultIDGenerator) TransactionID() string {
	return "TXN-" + uuid.NewString()
}
