package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["a.jpg","b.jpg"]`)))
	assert.Equal(t, StringList{"a.jpg", "b.jpg"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan(`{"not":"a list"}`))
}

func TestStringMapScan(t *testing.T) {
	var m StringMap
	require.NoError(t, m.Scan(`{"power":"120 hp"}`))
	assert.Equal(t, "120 hp", m["power"])

	v, err := StringMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestProductJSONShape(t *testing.T) {
	p := Product{ID: 3, Name: "Tractor", Price: MustMoney("1299.90")}

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "1299.90", out["price"])
	assert.Equal(t, []any{}, out["images"])
	assert.Equal(t, map[string]any{}, out["specifications"])
	assert.Contains(t, out, "isActive")
}

func TestUserHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{OpenID: "o-1", PasswordHash: "secret", Role: RoleAdmin})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (*User)(nil).IsAdmin())
}

func TestMoneyKeepsTwoDecimals(t *testing.T) {
	b, err := json.Marshal(MustMoney("1299.9"))
	require.NoError(t, err)
	assert.Equal(t, `"1299.90"`, string(b))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"15.5"`), &m))
	assert.Equal(t, "15.50", m.StringFixed(2))

	require.NoError(t, m.Scan("42.10"))
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "42.1", v)
}
