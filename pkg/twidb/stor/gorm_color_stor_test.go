package stor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateColor(t *testing.T) {
	stors := newTestStors(t)

	category, err := stors.ColorStor.GetOrCreateCategory("Skill announcement")
	require.NoError(t, err)

	again, err := stors.ColorStor.GetOrCreateCategory("Skill announcement")
	require.NoError(t, err)
	require.Equal(t, category.ID, again.ID)

	color, err := stors.ColorStor.GetOrCreateColor("#99ccff", category.ID)
	require.NoError(t, err)
	require.Equal(t, "99CCFF", color.RGB)

	sameColor, err := stors.ColorStor.GetOrCreateColor("99CCFF", category.ID)
	require.NoError(t, err)
	require.Equal(t, color.ID, sameColor.ID)

	_, err = stors.ColorStor.GetOrCreateColor("not-a-color", category.ID)
	require.Error(t, err)
}

func TestSameRGBUnderMultipleCategories(t *testing.T) {
	stors := newTestStors(t)

	first, err := stors.ColorStor.GetOrCreateCategory("Unique skill")
	require.NoError(t, err)
	second, err := stors.ColorStor.GetOrCreateCategory("Class restoration")
	require.NoError(t, err)

	_, err = stors.ColorStor.GetOrCreateColor("99CC00", first.ID)
	require.NoError(t, err)
	_, err = stors.ColorStor.GetOrCreateColor("99CC00", second.ID)
	require.NoError(t, err)

	colors, err := stors.ColorStor.GetColorsByRGB("99cc00")
	require.NoError(t, err)
	require.Len(t, colors, 2)
}
