package engine

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator_Format(t *testing.T) {
	id := UUIDv7Generator{}.Generate()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestUUIDv7Generator_SortsByCreation(t *testing.T) {
	g := UUIDv7Generator{}
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = g.Generate()
	}

	assert.True(t, sort.StringsAreSorted(ids), "UUIDv7 ids should sort in creation order")
}

func TestFixedGenerator_InOrder(t *testing.T) {
	g := NewFixedGenerator("s-1", "s-2")

	assert.Equal(t, "s-1", g.Generate())
	assert.Equal(t, "s-2", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
