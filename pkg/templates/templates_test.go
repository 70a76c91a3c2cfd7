package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldads/shieldads/pkg/models"
)

func TestGet(t *testing.T) {
	tpl, ok := Get(SystemFraudR1)
	require.True(t, ok)
	assert.Equal(t, SystemFraudR1, tpl.Key)
	assert.Equal(t, models.ScriptCategoryFraud, tpl.Category)
	assert.NotEmpty(t, tpl.Sections)

	_, ok = Get("NOT_A_TEMPLATE")
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 8)

	keys := make(map[string]bool, len(all))
	for _, tpl := range all {
		assert.NotEmpty(t, tpl.Key)
		assert.NotEmpty(t, tpl.Name)
		assert.False(t, keys[tpl.Key], "duplicate template key %s", tpl.Key)
		keys[tpl.Key] = true
	}

	// The blank template starts with a single empty section to build on
	blank, ok := Get(Blank)
	require.True(t, ok)
	require.Len(t, blank.Sections, 1)
	assert.Empty(t, blank.Sections[0].Fields)
}
