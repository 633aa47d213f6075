package charts

import (
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
)

// mentionChart builds a horizontal top-N bar chart of mention counts.
func mentionChart(title, caption string, mentions []twimodel.RefTypeMention) GalleryItem {
	if len(mentions) > topMentions {
		mentions = mentions[:topMentions]
	}

	labels := make([]string, 0, len(mentions))
	values := make([]float64, 0, len(mentions))
	for _, m := range mentions {
		labels = append(labels, m.Name)
		values = append(values, float64(m.Mentions))
	}

	return NewGalleryItem(
		title,
		caption,
		barHTML(title, "Mentions", labels, values, true),
		barPNG(labels, values),
	)
}

func mentionGallery(stors *stor.Stors, galleryName, chartTitle, caption string, typeCodes ...string) (*Gallery, error) {
	var items []GalleryItem
	for _, code := range typeCodes {
		mentions, err := stors.TextRefStor.ListMentionsByType(code)
		if err != nil {
			return nil, err
		}
		title := chartTitle
		if len(typeCodes) > 1 {
			title = twimodel.RefTypeNames[code] + " Mentions"
		}
		items = append(items, mentionChart(title, caption, mentions))
	}
	return NewGallery(galleryName, items...), nil
}

// ClassGallery builds the class category charts.
func ClassGallery(stors *stor.Stors) (*Gallery, error) {
	return mentionGallery(stors, "Classes", "Class Mentions",
		"Most mentioned [Classes] across all chapters.",
		twimodel.RefTypeClass)
}

// SkillGallery builds the skill category charts.
func SkillGallery(stors *stor.Stors) (*Gallery, error) {
	return mentionGallery(stors, "Skills", "Skill Mentions",
		"Most mentioned [Skills] across all chapters.",
		twimodel.RefTypeSkill)
}

// MagicGallery builds the spell and magic category charts.
func MagicGallery(stors *stor.Stors) (*Gallery, error) {
	return mentionGallery(stors, "Magic", "Spell Mentions",
		"Most mentioned [Spells] across all chapters.",
		twimodel.RefTypeSpell, twimodel.RefTypeMiracle)
}

// LocationGallery builds the location category charts.
func LocationGallery(stors *stor.Stors) (*Gallery, error) {
	return mentionGallery(stors, "Locations", "Location Mentions",
		"Most mentioned locations across all chapters.",
		twimodel.RefTypeLocation)
}

// ItemGallery builds the item and artifact category charts.
func ItemGallery(stors *stor.Stors) (*Gallery, error) {
	return mentionGallery(stors, "Items", "Item Mentions",
		"Most mentioned items and artifacts across all chapters.",
		twimodel.RefTypeItem)
}

// AllGalleries builds every category gallery in display order.
func AllGalleries(stors *stor.Stors) ([]*Gallery, error) {
	builders := []func(*stor.Stors) (*Gallery, error){
		WordCountGallery,
		CharacterGallery,
		ClassGallery,
		SkillGallery,
		MagicGallery,
		LocationGallery,
		ItemGallery,
	}

	galleries := make([]*Gallery, 0, len(builders))
	for _, build := range builders {
		gallery, err := build(stors)
		if err != nil {
			return nil, err
		}
		galleries = append(galleries, gallery)
	}
	return galleries, nil
}
