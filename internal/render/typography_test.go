package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDashes_SpacedAndTight_SameResult(t *testing.T) {
	want := "<p>слово — слово</p>"

	require.Equal(t, want, normalizeDashes("<p>слово — слово</p>"))
	require.Equal(t, want, normalizeDashes("<p>слово—слово</p>"))
}

func TestNormalizeDashes_HalfSpacedForms_Normalized(t *testing.T) {
	require.Equal(t, "<p>word — next</p>", normalizeDashes("<p>word —next</p>"))
	require.Equal(t, "<p>word — next</p>", normalizeDashes("<p>word— next</p>"))
}

func TestNormalizeDashes_Idempotent(t *testing.T) {
	once := normalizeDashes("<p>слово — слово и еще—раз</p>")
	require.Equal(t, once, normalizeDashes(once))
}

func TestNormalizeDashes_CodeBlocks_Untouched(t *testing.T) {
	in := "<pre><code>a — b</code></pre><p>c — d</p>"
	out := normalizeDashes(in)
	require.Equal(t, "<pre><code>a — b</code></pre><p>c — d</p>", out)
}

func TestNormalizeDashes_InlineCode_Untouched(t *testing.T) {
	in := "<p>run <code>ls — wide</code> now — ok</p>"
	out := normalizeDashes(in)
	require.Equal(t, "<p>run <code>ls — wide</code> now — ok</p>", out)
}

func TestNormalizeDashes_AttributeValues_Untouched(t *testing.T) {
	in := `<img src=x.png alt="a — b">`
	require.Equal(t, in, normalizeDashes(in))
}

func TestNormalizeDashes_HyphensAndMinus_Ignored(t *testing.T) {
	in := "<p>re-run a - b</p>"
	require.Equal(t, in, normalizeDashes(in))
}
