package classfinder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	require.Equal(t, "51100", catalog.Department)
	require.Equal(t, 2, catalog.Semester)
	require.Len(t, catalog.Sections, 14)
	require.Len(t, catalog.Courses, 96)

	// no duplicate codes
	seen := map[string]bool{}
	for _, course := range catalog.Courses {
		require.False(t, seen[course.Code], "duplicate course %s", course.Code)
		require.Greater(t, course.Credits, 0, "course %s has no credits", course.Code)
		seen[course.Code] = true
	}
}

func TestCatalogCredits(t *testing.T) {
	catalog := DefaultCatalog()

	require.Equal(t, 4, catalog.Credits("EF4101"))
	require.Equal(t, 5, catalog.Credits("EF4801"))
	require.Equal(t, 6, catalog.Credits("EF4722"))
	require.Equal(t, 0, catalog.Credits("XX0000"))
}

func TestCatalogNearestCode(t *testing.T) {
	catalog := DefaultCatalog()

	require.True(t, catalog.Contains("EF4101"))
	require.False(t, catalog.Contains("EF9999"))

	// a one-character typo should land on the real code
	require.Equal(t, "EF4801", catalog.NearestCode("EF480"))
}
