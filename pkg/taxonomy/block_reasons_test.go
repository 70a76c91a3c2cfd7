package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockReasons(t *testing.T) {
	catalog := BlockReasons()
	assert.Equal(t, Version, catalog.Version)
	require.NotEmpty(t, catalog.Categories)

	ids := make(map[string]bool, len(catalog.Categories))
	for _, c := range catalog.Categories {
		assert.NotEmpty(t, c.ID)
		assert.False(t, ids[c.ID], "duplicate category id %s", c.ID)
		ids[c.ID] = true
	}
}

func TestFindCategory(t *testing.T) {
	c, ok := FindCategory("fraud-circumvention")
	require.True(t, ok)
	assert.Equal(t, "fraud-circumvention", c.ID)

	_, ok = FindCategory("not-a-category")
	assert.False(t, ok)
}
