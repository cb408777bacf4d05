package render

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnchorMap_Lookup_TriesEncodedAndDecodedForms(t *testing.T) {
	m := NewAnchorMap()
	m.Register("настройка", "обзор-настройка")

	c, ok := m.Lookup("настройка")
	require.True(t, ok)
	require.Equal(t, "обзор-настройка", c)

	c, ok = m.Lookup(url.PathEscape("настройка"))
	require.True(t, ok)
	require.Equal(t, "обзор-настройка", c)
}

func TestAnchorMap_UnknownFragment_NotFound(t *testing.T) {
	m := NewAnchorMap()
	m.Register("setup", "guide-setup")

	_, ok := m.Lookup("teardown")
	require.False(t, ok)
}

func TestAnchorMap_EmptyAliasOrCanonical_Ignored(t *testing.T) {
	m := NewAnchorMap()
	m.Register("", "x")
	m.Register("y", "")

	require.Zero(t, m.Len())
}
