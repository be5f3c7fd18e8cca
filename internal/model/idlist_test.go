package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDList_WithWithout(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	l := IDList{}.With(a).With(b).With(a)
	assert.Equal(t, IDList{a, b}, l)
	assert.True(t, l.Contains(b))

	without := l.Without(a)
	assert.Equal(t, IDList{b}, without)
	assert.Equal(t, IDList{a, b}, l, "Without must not mutate the receiver")
}

func TestIDList_ValueScan(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	v, err := IDList{a, b}.Value()
	require.NoError(t, err)

	var scanned IDList
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, IDList{a, b}, scanned)

	empty, err := IDList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	r, err = ParseRole("seller")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}
