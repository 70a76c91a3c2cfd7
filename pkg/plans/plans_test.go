package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	p, ok := Get(ProMonthly)
	require.True(t, ok)
	assert.Equal(t, "Pro", p.Name)
	assert.Equal(t, CycleMonthly, p.Cycle)
	assert.Equal(t, 50, p.MaxAccounts)
	assert.Equal(t, 3, p.MaxUsers)

	_, ok = Get("NOT_A_PLAN")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 6)
	all[0].MaxAccounts = 9999

	again := All()
	assert.Equal(t, 25, again[0].MaxAccounts)
}

func TestCanAddAccounts(t *testing.T) {
	p, _ := Get(StarterMonthly)

	assert.True(t, p.CanAddAccounts(0, 1))
	assert.True(t, p.CanAddAccounts(24, 1), "filling the last slot is allowed")
	assert.True(t, p.CanAddAccounts(20, 5), "batch create up to the limit is allowed")
	assert.False(t, p.CanAddAccounts(25, 1))
	assert.False(t, p.CanAddAccounts(21, 5))
}

func TestCanAddUser(t *testing.T) {
	pro, _ := Get(ProMonthly)

	// one seat is always held back for the owner
	assert.True(t, pro.CanAddUser(0))
	assert.True(t, pro.CanAddUser(1))
	assert.False(t, pro.CanAddUser(2))
	assert.False(t, pro.CanAddUser(3))

	starter, _ := Get(StarterMonthly)
	assert.False(t, starter.CanAddUser(0), "single-seat plan has no seats beyond the owner")
}

func TestDefault(t *testing.T) {
	assert.Equal(t, StarterMonthly, Default().ID)
}
