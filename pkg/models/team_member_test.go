package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleViewer))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleOperator.AtLeast(RoleViewer))
	assert.False(t, RoleOperator.AtLeast(RoleAdmin))
	assert.False(t, RoleViewer.AtLeast(RoleOperator))

	// Unknown roles grant nothing, even against themselves
	assert.False(t, Role("superuser").AtLeast(RoleViewer))
	assert.False(t, Role("").AtLeast(Role("")))
}
