package charts

import (
	"sort"

	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
)

const topMentions = 15

// CharacterGallery builds the character category charts.
func CharacterGallery(stors *stor.Stors) (*Gallery, error) {
	mentions, err := stors.TextRefStor.ListMentionsByType(twimodel.RefTypeCharacter)
	if err != nil {
		return nil, err
	}

	bySpecies, err := stors.RefTypeStor.CountCharactersBySpecies()
	if err != nil {
		return nil, err
	}

	byStatus, err := stors.RefTypeStor.CountCharactersByStatus()
	if err != nil {
		return nil, err
	}

	items := []GalleryItem{
		mentionChart("Character Mentions",
			"Most mentioned characters across all chapters.", mentions),
		charactersBySpecies(bySpecies),
		charactersByStatus(byStatus),
	}

	return NewGallery("Characters", items...), nil
}

func charactersBySpecies(counts map[string]int64) GalleryItem {
	labels, values := sortedCounts(counts, twimodel.SpeciesName, topMentions)

	return NewGalleryItem(
		"Characters by Species",
		"Character counts for the most common species.",
		barHTML("Characters by Species", "Characters", labels, values, true),
		barPNG(labels, values),
	)
}

func charactersByStatus(counts map[string]int64) GalleryItem {
	displayName := func(code string) string {
		if name, ok := twimodel.StatusNames[code]; ok {
			return name
		}
		return code
	}
	labels, values := sortedCounts(counts, displayName, 0)

	return NewGalleryItem(
		"Characters by Status",
		"Alive, deceased, undead and unknown character proportions.",
		pieHTML("Characters by Status", "Status", labels, values),
		piePNG(labels, values),
	)
}

// sortedCounts flattens a code->count map into parallel label/value
// slices, largest first, optionally truncated.
func sortedCounts(counts map[string]int64, displayName func(string) string, limit int) ([]string, []float64) {
	type pair struct {
		code  string
		count int64
	}
	pairs := make([]pair, 0, len(counts))
	for code, count := range counts {
		pairs = append(pairs, pair{code, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].code < pairs[j].code
	})

	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}

	labels := make([]string, 0, len(pairs))
	values := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		labels = append(labels, displayName(p.code))
		values = append(values, float64(p.count))
	}
	return labels, values
}
