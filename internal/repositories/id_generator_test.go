package repositories_test

import (
	"regexp"
	"testing"

	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestNextProductID(t *testing.T) {
	tests := []struct {
		name   string
		lastID string
		found  bool
		want   string
	}{
		{name: "empty catalog", found: false, want: "000001"},
		{name: "increments", lastID: "000001", found: true, want: "000002"},
		{name: "crosses padding boundary", lastID: "000009", found: true, want: "000010"},
		{name: "ten becomes eleven", lastID: "000010", found: true, want: "000011"},
		{name: "unpadded numeric", lastID: "42", found: true, want: "000043"},
		{name: "grows past six digits", lastID: "999999", found: true, want: "1000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repositories.NextProductID(tt.lastID, tt.found))
		})
	}
}

func TestNextProductID_NonNumericFallsBackToRandomHex(t *testing.T) {
	hex := regexp.MustCompile(`^[0-9A-F]{6}$`)
	for _, last := range []string{"ABCDEF", "P00001", "legacy-id", "99999999999", "-5", "+5", "-000001"} {
		id := repositories.NextProductID(last, true)
		assert.Regexp(t, hex, id, "fallback for %q", last)
		assert.NotEqual(t, last, id)
		assert.NotEqual(t, repositories.FirstProductID, id)
	}
}
