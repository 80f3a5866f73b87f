package spider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpider(t *testing.T, typeName, name string) *Spider {
	t.Helper()
	sp, err := Define(typeName, Attributes{Name: name, Agency: "Agency " + name, ID: name})
	require.NoError(t, err)
	return sp
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	added, err := r.Register(mustSpider(t, "B", "b_spider"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = r.Register(mustSpider(t, "A", "a_spider"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = r.Register(mustSpider(t, "A", "a_spider"))
	require.NoError(t, err)
	assert.False(t, added, "re-registering a type is a no-op")

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"a_spider", "b_spider"}, names(r.List()))
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	sp := mustSpider(t, "A", "a_spider")
	_, err := r.Register(sp)
	require.NoError(t, err)

	got, err := r.Get("a_spider")
	require.NoError(t, err)
	assert.Same(t, sp, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownSpider)

	byType, ok := r.Lookup("A")
	assert.True(t, ok)
	assert.Same(t, sp, byType)
}

func TestRegistry_NameTaken(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(mustSpider(t, "A", "shared"))
	require.NoError(t, err)

	added, err := r.Register(mustSpider(t, "B", "shared"))
	assert.False(t, added)
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Equal(t, 1, r.Len())
}
