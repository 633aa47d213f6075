package ingest

import (
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/innverse/twistats/pkg/wiki"
)

// WikiStats summarizes one wiki ingestion run.
type WikiStats struct {
	RefTypes int
	Aliases  int
}

// bracketed wraps system phrases the way they appear in chapter text,
// so wiki-sourced skills line up with scanned [Skill] mentions.
func bracketed(name string) string {
	if strings.HasPrefix(name, "[") {
		return name
	}
	return "[" + name + "]"
}

func (b *Builder) createAliases(refType *twimodel.RefType, names []string, stats *WikiStats) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || name == refType.Name {
			continue
		}
		if _, err := b.stors.RefTypeStor.CreateAlias(&twimodel.Alias{
			Name:      name,
			RefTypeID: refType.ID,
		}); err != nil {
			return errors.Wrapf(err, "creating alias %q", name)
		}
		stats.Aliases++
	}
	return nil
}

// firstChapterID resolves a wiki "first appearance" href to a stored
// chapter. Relative wiki links and unknown chapters resolve to nil.
func (b *Builder) firstChapterID(hrefs []string) *int {
	for _, href := range hrefs {
		_, endpoint, found := strings.Cut(href, ".com")
		if !found || endpoint == "" {
			continue
		}

		chapter, err := b.stors.ChapterStor.GetChapterByURLEndpoint(endpoint)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("endpoint", endpoint).Debug("first appearance chapter not stored")
			continue
		}
		if err != nil {
			continue
		}
		return &chapter.ID
	}
	return nil
}

// IngestCharacters stores character records scraped from the wiki.
func (b *Builder) IngestCharacters(records []wiki.CharacterRecord) (*WikiStats, error) {
	stats := &WikiStats{}

	for _, record := range records {
		refType, err := b.getOrCreateRefType(record.Name, twimodel.RefTypeCharacter)
		if err != nil {
			return nil, err
		}
		stats.RefTypes++

		if err := b.createAliases(refType, record.Aliases, stats); err != nil {
			return nil, err
		}

		character := &twimodel.Character{
			RefTypeID:      refType.ID,
			FirstChapterID: b.firstChapterID(record.FirstHrefs),
			WikiURI:        record.WikiURL,
			Status:         twimodel.ParseStatus(record.Status),
			Species:        twimodel.ParseSpecies(record.Species),
		}
		if _, err := b.stors.RefTypeStor.SaveCharacter(character); err != nil {
			return nil, errors.Wrapf(err, "saving character %q", record.Name)
		}
	}
	return stats, nil
}

// IngestLocations stores location pages from the wiki.
func (b *Builder) IngestLocations(records []wiki.LocationRecord) (*WikiStats, error) {
	stats := &WikiStats{}

	for _, record := range records {
		refType, err := b.getOrCreateRefType(record.Name, twimodel.RefTypeLocation)
		if err != nil {
			return nil, err
		}
		stats.RefTypes++

		if _, err := b.stors.RefTypeStor.SaveLocation(&twimodel.Location{
			RefTypeID: refType.ID,
			WikiURI:   record.WikiURL,
		}); err != nil {
			return nil, errors.Wrapf(err, "saving location %q", record.Name)
		}
	}
	return stats, nil
}

// IngestSkills stores skill-table rows from the wiki. Skill names are
// stored bracketed to line up with chapter mentions.
func (b *Builder) IngestSkills(rows []wiki.SkillRow, pageURL string) (*WikiStats, error) {
	stats := &WikiStats{}

	for _, row := range rows {
		refType, err := b.getOrCreateRefType(bracketed(row.Name), twimodel.RefTypeSkill)
		if err != nil {
			return nil, err
		}
		stats.RefTypes++

		aliases := make([]string, 0, len(row.Aliases))
		for _, alias := range row.Aliases {
			aliases = append(aliases, bracketed(alias))
		}
		if err := b.createAliases(refType, aliases, stats); err != nil {
			return nil, err
		}

		if _, err := b.stors.RefTypeStor.SaveSkill(&twimodel.Skill{
			RefTypeID: refType.ID,
			WikiURI:   pageURL,
		}); err != nil {
			return nil, errors.Wrapf(err, "saving skill %q", row.Name)
		}
	}
	return stats, nil
}

// IngestSpells stores spell-table rows from the wiki.
func (b *Builder) IngestSpells(rows []wiki.SpellRow, pageURL string) (*WikiStats, error) {
	stats := &WikiStats{}

	for _, row := range rows {
		refType, err := b.getOrCreateRefType(bracketed(row.Name), twimodel.RefTypeSpell)
		if err != nil {
			return nil, err
		}
		stats.RefTypes++

		aliases := make([]string, 0, len(row.Aliases))
		for _, alias := range row.Aliases {
			aliases = append(aliases, bracketed(alias))
		}
		if err := b.createAliases(refType, aliases, stats); err != nil {
			return nil, err
		}

		if _, err := b.stors.RefTypeStor.SaveSpell(&twimodel.Spell{
			RefTypeID: refType.ID,
			WikiURI:   pageURL,
		}); err != nil {
			return nil, errors.Wrapf(err, "saving spell %q", row.Name)
		}
	}
	return stats, nil
}

// IngestClasses stores class-table rows from the wiki.
func (b *Builder) IngestClasses(rows []wiki.ClassRow) (*WikiStats, error) {
	stats := &WikiStats{}

	for _, row := range rows {
		refType, err := b.getOrCreateRefType(bracketed(row.Name), twimodel.RefTypeClass)
		if err != nil {
			return nil, err
		}
		stats.RefTypes++

		aliases := make([]string, 0, len(row.Aliases))
		for _, alias := range row.Aliases {
			aliases = append(aliases, bracketed(alias))
		}
		if err := b.createAliases(refType, aliases, stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// IngestArtifacts stores artifact list entries from the wiki.
func (b *Builder) IngestArtifacts(entries []wiki.ArtifactEntry, pageURL string) (*WikiStats, error) {
	stats := &WikiStats{}

	for _, entry := range entries {
		refType, err := b.getOrCreateRefType(entry.Name, twimodel.RefTypeItem)
		if err != nil {
			return nil, err
		}
		stats.RefTypes++

		if err := b.createAliases(refType, entry.Aliases, stats); err != nil {
			return nil, err
		}

		if _, err := b.stors.RefTypeStor.SaveItem(&twimodel.Item{
			RefTypeID: refType.ID,
			WikiURI:   pageURL,
		}); err != nil {
			return nil, errors.Wrapf(err, "saving item %q", entry.Name)
		}
	}
	return stats, nil
}
