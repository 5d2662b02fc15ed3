package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnglishDefaults(t *testing.T) {
	ref := English()
	require.NoError(t, Validate(ref))
	assert.Equal(t, DefaultEnglishIC, ref.EnglishIC)
	assert.Equal(t, DefaultMinSamples, ref.MinSamples)
	assert.InDelta(t, 1.0, ref.Frequencies.Sum(), 0.01)
	assert.Equal(t, 0.127, ref.Frequencies[4])
}

func TestEnglishReturnsCopy(t *testing.T) {
	a := English()
	a.Frequencies[0] = 1
	a.EnglishIC = 0.5
	b := English()
	assert.Equal(t, 0.082, b.Frequencies[0])
	assert.Equal(t, DefaultEnglishIC, b.EnglishIC)
}

func TestNewValidates(t *testing.T) {
	table := EnglishFrequencies[:]
	ref, err := New(table, 0.07, 30)
	require.NoError(t, err)
	assert.Equal(t, 0.07, ref.EnglishIC)
	assert.Equal(t, 30, ref.MinSamples)

	_, err = New(table[:25], 0.065, 40)
	assert.Error(t, err)

	bad := append([]float64(nil), table...)
	bad[3] = -0.1
	_, err = New(bad, 0.065, 40)
	assert.Error(t, err)

	_, err = New(table, 0, 40)
	assert.Error(t, err)

	_, err = New(table, 0.065, 0)
	assert.Error(t, err)

	_, err = New(make([]float64, 26), 0.065, 40)
	assert.Error(t, err)
}

func TestFromText(t *testing.T) {
	ref, err := FromText("Aab!")
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, ref.Frequencies[0], 1e-12)
	assert.InDelta(t, 1.0/3.0, ref.Frequencies[1], 1e-12)
	assert.Equal(t, DefaultEnglishIC, ref.EnglishIC)

	_, err = FromText("123 !?")
	assert.Error(t, err)
}
