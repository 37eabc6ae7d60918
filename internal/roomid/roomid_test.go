package roomid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct{ n int }

func (f fixedSource) Intn(n int) int { return f.n % n }

func TestGenerateLengthAndAlphabet(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := Generate()
		require.NoError(t, Validate(code))
		seen[code] = true
	}
	// 100 random 6-char codes colliding would be astonishing.
	assert.Greater(t, len(seen), 90)
}

func TestGenerateDeterministic(t *testing.T) {
	gen := NewGenerator(fixedSource{n: 0})
	assert.Equal(t, "000000", gen.Generate())

	gen = NewGenerator(fixedSource{n: 10})
	assert.Equal(t, "AAAAAA", gen.Generate())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("ABC123"))
	assert.Error(t, Validate("abc123"), "lowercase is not in the alphabet")
	assert.Error(t, Validate("ABC12"), "too short")
	assert.Error(t, Validate("ABCI23"), "I is excluded")
	assert.Error(t, Validate(""))
}
