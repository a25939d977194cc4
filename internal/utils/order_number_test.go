package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	now := time.Date(2026, 8, 24, 15, 4, 5, 0, time.UTC)

	num, err := GenerateOrderNumber(now)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ZYV-20260824-[A-Z2-9]{6}$`), num)

	// alphabet sans caractères ambigus (0/O, 1/I)
	suffix := strings.TrimPrefix(num, "ZYV-20260824-")
	for _, r := range suffix {
		assert.Contains(t, orderNumberAlphabet, string(r))
	}
}

func TestGenerateOrderNumber_PartieAleatoire(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		num, err := GenerateOrderNumber(now)
		require.NoError(t, err)
		seen[num] = true
	}

	// 32^6 combinaisons: 50 tirages identiques seraient un bug du RNG
	assert.Greater(t, len(seen), 1)
}
