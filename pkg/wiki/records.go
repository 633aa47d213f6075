package wiki

import (
	"github.com/apex/log"
	"github.com/pkg/errors"
)

// Wiki pages/categories the fetchers read from.
const (
	charactersCategory = "Characters"
	locationsCategory  = "Locations"
	classesPage        = "Classes"
	skillsPage         = "Skills"
	spellsPage         = "Spells"
	artifactsPage      = "Artifacts"
)

// CharacterRecord is one character's wiki data, ready for ingest.
type CharacterRecord struct {
	Name       string
	Aliases    []string
	Status     string
	Species    string
	FirstHrefs []string
	WikiURL    string
}

// FetchCharacters walks the Characters category and parses each page's
// infobox. Pages without an infobox still yield a record so the name
// and URL get stored.
func (c *Client) FetchCharacters() ([]CharacterRecord, error) {
	pages, err := c.CategoryMembers(charactersCategory)
	if err != nil {
		return nil, err
	}

	var records []CharacterRecord
	for _, page := range pages {
		wikitext, err := c.PageWikitext(page.Title)
		if err != nil {
			log.WithError(err).WithField("page", page.Title).Warn("skipping character page")
			continue
		}

		record := CharacterRecord{
			Name:    page.Title,
			WikiURL: c.PageURL(page.Title),
		}

		if params, ok := ExtractTemplateParams(wikitext, "Infobox character"); ok {
			box := ParseCharInfobox(params)
			record.Aliases = box.Aliases
			record.Status = box.Status
			record.Species = box.Species
			record.FirstHrefs = box.FirstHrefs
		} else {
			log.WithField("page", page.Title).Debug("character page has no infobox")
		}

		records = append(records, record)
	}
	return records, nil
}

// LocationRecord is one location page.
type LocationRecord struct {
	Name    string
	WikiURL string
}

// FetchLocations lists the Locations category.
func (c *Client) FetchLocations() ([]LocationRecord, error) {
	pages, err := c.CategoryMembers(locationsCategory)
	if err != nil {
		return nil, err
	}

	records := make([]LocationRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, LocationRecord{
			Name:    page.Title,
			WikiURL: c.PageURL(page.Title),
		})
	}
	return records, nil
}

// FetchSkills parses the skill tables on the Skills page.
func (c *Client) FetchSkills() ([]SkillRow, string, error) {
	wikitext, err := c.PageWikitext(skillsPage)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetching skills page")
	}

	var rows []SkillRow
	for _, table := range ParseTables(wikitext) {
		for _, raw := range table {
			if row, ok := ParseSkillRow(raw); ok {
				rows = append(rows, row)
			}
		}
	}
	return rows, c.PageURL(skillsPage), nil
}

// FetchSpells parses the spell tables on the Spells page.
func (c *Client) FetchSpells() ([]SpellRow, string, error) {
	wikitext, err := c.PageWikitext(spellsPage)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetching spells page")
	}

	var rows []SpellRow
	for _, table := range ParseTables(wikitext) {
		for _, raw := range table {
			if row, ok := ParseSpellRow(raw); ok {
				rows = append(rows, row)
			}
		}
	}
	return rows, c.PageURL(spellsPage), nil
}

// FetchClasses parses the class tables on the Classes page.
func (c *Client) FetchClasses() ([]ClassRow, string, error) {
	wikitext, err := c.PageWikitext(classesPage)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetching classes page")
	}

	var rows []ClassRow
	for _, table := range ParseTables(wikitext) {
		for _, raw := range table {
			if row, ok := ParseClassRow(raw); ok {
				rows = append(rows, row)
			}
		}
	}
	return rows, c.PageURL(classesPage), nil
}

// FetchArtifacts parses the artifact list on the Artifacts page.
func (c *Client) FetchArtifacts() ([]ArtifactEntry, string, error) {
	wikitext, err := c.PageWikitext(artifactsPage)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetching artifacts page")
	}

	var entries []ArtifactEntry
	for _, item := range ParseListItems(wikitext) {
		if entry, ok := ParseArtifactItem(item); ok {
			entries = append(entries, entry)
		}
	}
	return entries, c.PageURL(artifactsPage), nil
}
