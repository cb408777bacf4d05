package fingerprint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Deterministic(t *testing.T) {
	content := []byte("---\ntitle: Guide\n---\n\n# Guide\n")

	assert.Equal(t, Compute(content), Compute(content))
	assert.NotEmpty(t, Compute(content))
}

func TestCompute_BodyChangeShiftsFingerprint(t *testing.T) {
	a := Compute([]byte("---\ntitle: Guide\n---\n\n# Guide\n"))
	b := Compute([]byte("---\ntitle: Guide\n---\n\n# Guide v2\n"))

	assert.NotEqual(t, a, b)
}

func TestCompute_FrontmatterChangeShiftsFingerprint(t *testing.T) {
	a := Compute([]byte("---\ntitle: Guide\n---\n\n# Guide\n"))
	b := Compute([]byte("---\ntitle: Handbook\n---\n\n# Guide\n"))

	assert.NotEqual(t, a, b)
}

func TestCompute_MalformedFrontmatterStillFingerprints(t *testing.T) {
	malformed := []byte("---\ntitle: Guide\n\n# No closing delimiter\n")

	fp := Compute(malformed)
	assert.NotEmpty(t, fp)
	assert.NotEqual(t, Compute([]byte("---\ntitle: Guide\n---\n\n# Guide\n")), fp)
}

func TestSnapshot_MapsEverySource(t *testing.T) {
	files := map[string]string{
		"a.md": "# A\n",
		"b.md": "# B\n",
	}
	load := func(source string) ([]byte, error) {
		return []byte(files[source]), nil
	}

	snap, err := Snapshot([]string{"a.md", "b.md"}, load)
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.NotEqual(t, snap["a.md"], snap["b.md"])
}

func TestSnapshot_LoadErrorNamesSource(t *testing.T) {
	load := func(string) ([]byte, error) {
		return nil, errors.New("disk gone")
	}

	_, err := Snapshot([]string{"a.md"}, load)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.md")
}

func TestDiff_ChangedAddedRemoved(t *testing.T) {
	before := map[string]string{
		"same.md":    "fp1",
		"changed.md": "fp2",
		"removed.md": "fp3",
	}
	after := map[string]string{
		"same.md":    "fp1",
		"changed.md": "fp2-new",
		"added.md":   "fp4",
	}

	assert.Equal(t, []string{"added.md", "changed.md", "removed.md"}, Diff(before, after))
}

func TestDiff_NoChanges(t *testing.T) {
	snap := map[string]string{"a.md": "fp"}
	assert.Empty(t, Diff(snap, snap))
}
