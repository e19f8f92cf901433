package idgen_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-authoring/internal/pkg/idgen"
)

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("loc")

	first := gen.Generate()
	second := gen.Generate()

	assert.True(t, strings.HasPrefix(first, "loc_"))
	assert.Len(t, strings.TrimPrefix(first, "loc_"), 36)
	assert.NotEqual(t, first, second)
}

func TestULIDGeneratorIsSortable(t *testing.T) {
	gen := idgen.NewULID()

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = gen.Generate()
	}

	require.Len(t, ids[0], 26)
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("img")
	assert.Equal(t, "img_1", gen.Generate())
	assert.Equal(t, "img_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}
