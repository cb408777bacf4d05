package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voyahchat/sitegen/internal/slug"
)

func mustEnter(t *testing.T, tr *Tracker, level int, text string) {
	t.Helper()
	_, _, err := tr.Enter(level, text, text, "")
	require.NoError(t, err)
}

func TestTracker_NestedHeadings_BuildHierarchicalAnchors(t *testing.T) {
	tr := NewTracker(slug.CaseLower)

	c, _, err := tr.Enter(1, "1. Overview", "1. Overview", "")
	require.NoError(t, err)
	require.Equal(t, "overview", c)

	c, _, err = tr.Enter(2, "Setup", "Setup", "")
	require.NoError(t, err)
	require.Equal(t, "overview-setup", c)

	c, _, err = tr.Enter(3, "Requirements", "Requirements", "")
	require.NoError(t, err)
	require.Equal(t, "overview-setup-requirements", c)
}

func TestTracker_SiblingHeading_TruncatesDeeperSlots(t *testing.T) {
	tr := NewTracker(slug.CaseLower)
	mustEnter(t, tr, 1, "Overview")
	mustEnter(t, tr, 2, "Setup")
	mustEnter(t, tr, 3, "Requirements")

	c, _, err := tr.Enter(2, "Usage", "Usage", "")
	require.NoError(t, err)
	require.Equal(t, "overview-usage", c)

	c, _, err = tr.Enter(3, "Examples", "Examples", "")
	require.NoError(t, err)
	require.Equal(t, "overview-usage-examples", c)
}

func TestTracker_LevelSkip_DropsEmptySlots(t *testing.T) {
	tr := NewTracker(slug.CaseLower)
	mustEnter(t, tr, 1, "Overview")

	c, _, err := tr.Enter(3, "Details", "Details", "")
	require.NoError(t, err)
	require.Equal(t, "overview-details", c)
}

func TestTracker_DocumentStartingAtH2_NoLeadingSeparator(t *testing.T) {
	tr := NewTracker(slug.CaseLower)

	c, _, err := tr.Enter(2, "Intro", "Intro", "")
	require.NoError(t, err)
	require.Equal(t, "intro", c)
}

func TestTracker_DuplicateCanonicalAnchor_Fails(t *testing.T) {
	tr := NewTracker(slug.CaseLower)
	mustEnter(t, tr, 1, "Guide")
	mustEnter(t, tr, 2, "Note")

	_, _, err := tr.Enter(2, "Note", "Note", "")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateAnchor))
}

func TestTracker_RepeatedText_GitHubAliasSuffixed(t *testing.T) {
	tr := NewTracker(slug.CaseLower)
	mustEnter(t, tr, 1, "First")

	c, alias, err := tr.Enter(2, "Note", "Note", "")
	require.NoError(t, err)
	require.Equal(t, "first-note", c)
	require.Equal(t, "note", alias)

	mustEnter(t, tr, 1, "Second")
	c, alias, err = tr.Enter(2, "Note", "Note", "")
	require.NoError(t, err)
	require.Equal(t, "second-note", c)
	require.Equal(t, "note-1", alias)
}

func TestTracker_CustomAnchor_OverridesCanonical(t *testing.T) {
	tr := NewTracker(slug.CaseLower)
	mustEnter(t, tr, 1, "Guide")

	c, alias, err := tr.Enter(2, "Install Steps", "Install Steps {#install}", "install")
	require.NoError(t, err)
	require.Equal(t, "install", c)
	require.Equal(t, "install-steps-install", alias)
}

func TestTracker_CustomAnchor_ChildrenUseHeadingText(t *testing.T) {
	tr := NewTracker(slug.CaseLower)
	mustEnter(t, tr, 1, "Guide")
	_, _, err := tr.Enter(2, "Install Steps", "Install Steps {#install}", "install")
	require.NoError(t, err)

	c, _, err := tr.Enter(3, "Linux", "Linux", "")
	require.NoError(t, err)
	require.Equal(t, "guide-install-steps-linux", c)
}

func TestTracker_PunctuationOnlyHeading_NoAnchor(t *testing.T) {
	tr := NewTracker(slug.CaseLower)

	c, alias, err := tr.Enter(1, "!!!", "!!!", "")
	require.NoError(t, err)
	require.Empty(t, c)
	require.Empty(t, alias)
}

func TestTracker_CyrillicHeading_PreservedInAnchor(t *testing.T) {
	tr := NewTracker(slug.CaseLower)

	c, _, err := tr.Enter(1, "Настройка/Конфигурация", "Настройка/Конфигурация", "")
	require.NoError(t, err)
	require.Equal(t, "настройка-конфигурация", c)
}
