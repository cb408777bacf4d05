package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type color string

const (
	colorRed  color = "red"
	colorBlue color = "blue"
)

func testNormalizer() *Normalizer[color] {
	return New(map[string]color{
		"red":  colorRed,
		"blue": colorBlue,
	}, colorRed)
}

func TestNormalize_FoldsCaseAndWhitespace(t *testing.T) {
	n := testNormalizer()

	require.Equal(t, colorBlue, n.Normalize("Blue"))
	require.Equal(t, colorBlue, n.Normalize("  BLUE\t"))
}

func TestNormalize_UnknownReturnsFallback(t *testing.T) {
	n := testNormalizer()

	require.Equal(t, colorRed, n.Normalize("green"))
	require.Equal(t, colorRed, n.Normalize(""))
}

func TestStrict_UnknownNamesValidOptions(t *testing.T) {
	n := testNormalizer()

	_, err := n.Strict("green")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"green"`)
	require.Contains(t, err.Error(), "blue")
	require.Contains(t, err.Error(), "red")
}

func TestKeys_SortedCopy(t *testing.T) {
	n := testNormalizer()

	keys := n.Keys()
	require.Equal(t, []string{"blue", "red"}, keys)

	keys[0] = "mutated"
	require.Equal(t, []string{"blue", "red"}, n.Keys())
}
