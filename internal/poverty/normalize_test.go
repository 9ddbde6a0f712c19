package poverty

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		size     float64
		children float64
		want     Key
	}{
		{"small family", 2, 0, Key{2, 0}},
		{"at caps", 9, 8, Key{9, 8}},
		{"large family capped", 15, 2, Key{9, 2}},
		{"many children capped", 12, 11, Key{9, 8}},
		{"zero", 0, 0, Key{0, 0}},
		{"integral float", 4.0, 2.0, Key{4, 2}},
		{"huge", 1e12, 3, Key{9, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.size, tt.children)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_InvalidKey(t *testing.T) {
	tests := []struct {
		name     string
		size     float64
		children float64
	}{
		{"negative size", -1, 0},
		{"negative children", 3, -2},
		{"fractional size", 2.5, 0},
		{"fractional children", 3, 0.5},
		{"NaN size", math.NaN(), 1},
		{"NaN children", 3, math.NaN()},
		{"infinite size", math.Inf(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.size, tt.children)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrInvalidKey))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for size := 0; size <= 20; size++ {
		for children := 0; children <= 12; children++ {
			once, err := Normalize(float64(size), float64(children))
			require.NoError(t, err)
			twice, err := Normalize(float64(once.FamilySize), float64(once.Children))
			require.NoError(t, err)
			assert.Equal(t, once, twice, "size=%d children=%d", size, children)
		}
	}
}

func TestNormalize_LargeFamilyMatchesNine(t *testing.T) {
	a, err := Normalize(15, 2)
	require.NoError(t, err)
	b, err := Normalize(9, 2)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestKey_StringAndLess(t *testing.T) {
	assert.Equal(t, "3/1", Key{3, 1}.String())
	assert.True(t, Key{2, 5}.Less(Key{3, 0}))
	assert.True(t, Key{3, 0}.Less(Key{3, 1}))
	assert.False(t, Key{3, 1}.Less(Key{3, 1}))
}
