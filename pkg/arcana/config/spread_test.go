package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/arcana/pkg/arcana/facts"
	"github.com/cognicore/arcana/pkg/arcana/internalerr"
	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

func TestLoadSpread(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spread.yaml")
	yaml := `past: ["0 Шут"]
present: ["I Маг", "  "]
future: ["III Императрица"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	sp, err := LoadSpread(path)
	require.NoError(t, err)
	assert.Equal(t, 4, sp.Len())

	got, err := sp.Facts()
	require.NoError(t, err)
	assert.Equal(t, []facts.Fact{
		{Value: "0 Шут", Tag: timetag.Past},
		{Value: "I Маг", Tag: timetag.Present},
		{Value: "III Императрица", Tag: timetag.Future},
	}, got)
}

func TestLoadSpreadErrors(t *testing.T) {
	_, err := LoadSpread(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("past: [unterminated\n"), 0o644))
	_, err = LoadSpread(path)
	assert.Error(t, err)
}

func TestSpreadPlace(t *testing.T) {
	var sp Spread
	require.NoError(t, sp.Place("CardX", timetag.Future))
	require.NoError(t, sp.Place("CardY", timetag.Past))

	err := sp.Place("CardZ", timetag.Mixed)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	got, err := sp.Facts()
	require.NoError(t, err)
	assert.Equal(t, []facts.Fact{
		{Value: "CardY", Tag: timetag.Past},
		{Value: "CardX", Tag: timetag.Future},
	}, got)
}

func TestSpreadRejectsRepeatedCard(t *testing.T) {
	sp := Spread{Past: []string{"CardX"}, Future: []string{" CardX "}}
	_, err := sp.Facts()
	assert.True(t, errors.Is(err, internalerr.ErrDuplicate))
}

func TestSpreadPlaceSlotted(t *testing.T) {
	var sp Spread
	require.NoError(t, sp.PlaceSlotted("Прошлое:0 Шут", timetag.Russian))
	require.NoError(t, sp.PlaceSlotted("future: III Императрица", timetag.Russian))

	got, err := sp.Facts()
	require.NoError(t, err)
	assert.Equal(t, []facts.Fact{
		{Value: "0 Шут", Tag: timetag.Past},
		{Value: "III Императрица", Tag: timetag.Future},
	}, got)

	err = sp.PlaceSlotted("someday:CardX", timetag.English)
	assert.True(t, errors.Is(err, internalerr.ErrUnknownTag))

	err = sp.PlaceSlotted("mixed:CardX", timetag.English)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	err = sp.PlaceSlotted("CardX", timetag.English)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}
