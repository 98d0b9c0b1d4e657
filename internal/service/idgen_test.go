package service

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var accountNumberPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)

func TestIDGenerator_AccountNumber(t *testing.T) {
	gen := NewIDGenerator()

	tests := []struct {
		name       string
		holderName string
		wantPrefix string
	}{
		{
			name:       "simple name",
			holderName: "John",
			wantPrefix: "JOH",
		},
		{
			name:       "lowercase name",
			holderName: "alice",
			wantPrefix: "ALI",
		},
		{
			name:       "name with spaces and punctuation",
			holderName: "J. R. Hartley",
			wantPrefix: "JRH",
		},
		{
			name:       "short name padded",
			holderName: "Bo",
			wantPrefix: "BOX",
		},
		{
			name:       "single letter padded",
			holderName: "Q",
			wantPrefix: "QXX",
		},
		{
			name:       "no letters at all",
			holderName: "1234",
			wantPrefix: "XXX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gen.AccountNumber(tt.holderName)
			assert.True(t, accountNumberPattern.MatchString(got), "got %q", got)
			assert.True(t, strings.HasPrefix(got, tt.wantPrefix), "got %q, want prefix %q", got, tt.wantPrefix)
		})
	}
}

func TestIDGenerator_TransactionID(t *testing.T) {
	gen := NewIDGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.TransactionID()
		assert.True(t, strings.HasPrefix(id, "TXN-"))
		assert.False(t, seen[id], "duplicate transaction id %q", id)
		seen[id] = true
	}
}
