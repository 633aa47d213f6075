package twimodel

import (
	"regexp"
	"strings"
)

// Character status short-codes.
const (
	StatusAlive   = "AL"
	StatusDead    = "DE"
	StatusUndead  = "UD"
	StatusUnknown = "UK"
)

// StatusNames maps status short-codes to display names.
var StatusNames = map[string]string{
	StatusAlive:   "Alive",
	StatusDead:    "Deceased",
	StatusUndead:  "Undead",
	StatusUnknown: "Unknown",
}

// SpeciesUnknown is the fallback when wiki text matches nothing below.
const SpeciesUnknown = "UK"

type speciesEntry struct {
	Code    string
	Name    string
	Pattern *regexp.Regexp
}

// SpeciesData drives classification of free-form species strings pulled
// from wiki infoboxes. Order matters: more specific entries come before
// the generic ones they would otherwise shadow (eg "Half-Elf" before
// "Elf", the Lizardfolk subtypes before "Lizardfolk").
var SpeciesData = []speciesEntry{
	{"AG", "Agelum", regexp.MustCompile(`[Aa]gelum`)},
	{"AN", "Antinium", regexp.MustCompile(`[Aa]ntinium`)},
	{"BK", "Beastkin", regexp.MustCompile(`[Bb]eastkin`)},
	{"CT", "Centaur", regexp.MustCompile(`[Cc]entaur`)},
	{"CY", "Cyclops", regexp.MustCompile(`[Cc]yclops`)},
	{"DE", "Demon", regexp.MustCompile(`[Dd]emon`)},
	{"DJ", "Djinni", regexp.MustCompile(`[Dd]jinn[i]?`)},
	{"DG", "Dragon", regexp.MustCompile(`[Dd]ragon`)},
	{"DP", "Drowned People", regexp.MustCompile(`[Dd]rowned`)},
	{"DR", "Drake", regexp.MustCompile(`[Dd]rake`)},
	{"DU", "Dullahan", regexp.MustCompile(`[Dd]ullahan`)},
	{"DY", "Dryad", regexp.MustCompile(`[Dd]ryad`)},
	{"DW", "Dwarf", regexp.MustCompile(`[Dd]warf`)},
	{"HE", "Half-Elf", regexp.MustCompile(`[Hh]alf[-]?[Ee]lf`)},
	{"HG", "Half-Gazer", regexp.MustCompile(`[Hh]alf[-]?[Gg]azer`)},
	{"HI", "Half-Giant", regexp.MustCompile(`[Hh]alf[-]?[Gg]iant`)},
	{"HT", "Half-Troll", regexp.MustCompile(`[Hh]alf[-]?[Tt]roll`)},
	{"EL", "Elf", regexp.MustCompile(`^\s*[Ee]lf`)},
	{"EM", "Elemental", regexp.MustCompile(`^\s*[Ee]lemental`)},
	{"FA", "Fae", regexp.MustCompile(`([Ff]ae|[Ff]airy)`)},
	{"FR", "Fraerling", regexp.MustCompile(`[Ff]raerling`)},
	{"GR", "Garuda", regexp.MustCompile(`[Gg]aruda`)},
	{"GA", "Gazer", regexp.MustCompile(`^\s*[Gg]azer`)},
	{"GN", "Gnoll", regexp.MustCompile(`[Gg]noll`)},
	{"GI", "Giant", regexp.MustCompile(`^\s*[Gg]iant`)},
	{"GB", "Goblin", regexp.MustCompile(`[Gg]oblin`)},
	{"GM", "Golem", regexp.MustCompile(`[Gg]olem`)},
	{"GO", "God", regexp.MustCompile(`[Gg]od`)},
	{"HA", "Halfling", regexp.MustCompile(`[Hh]alfling`)},
	{"HR", "Harpy", regexp.MustCompile(`[Hh]arp(y|ies)`)},
	{"HU", "Human", regexp.MustCompile(`[Hh]uman`)},
	{"KI", "Kitsune", regexp.MustCompile(`[Kk]itsune`)},
	{"LA", "Living Armor", regexp.MustCompile(`[Ll]iving [Aa]rmor`)},
	{"LG", "Lizardfolk - Gorgon", regexp.MustCompile(`[Gg]orgon`)},
	{"LM", "Lizardfolk - Medusa", regexp.MustCompile(`[Mm]edusa`)},
	{"LN", "Lizardfolk - Naga", regexp.MustCompile(`[Nn]aga`)},
	{"LL", "Lizardfolk - Lamia", regexp.MustCompile(`[Ll]amia`)},
	{"LF", "Lizardfolk", regexp.MustCompile(`[Ll]izard[-\s]?([Ff]olk|[Mm]an|[Ww]oman)`)},
	{"LU", "Lucifen", regexp.MustCompile(`[Ll]ucifen`)},
	{"ME", "Merfolk", regexp.MustCompile(`[Mm]er[-]?([Ff]olk|[Mm]an|[Ww]oman)`)},
	{"MM", "Mimic", regexp.MustCompile(`[Mm]imic`)},
	{"MN", "Mind", regexp.MustCompile(`[Mm]ind`)},
	{"MI", "Minotaur", regexp.MustCompile(`[Mm]inotaur`)},
	{"OG", "Ogre", regexp.MustCompile(`[Oo]gre`)},
	{"PH", "Phoenix", regexp.MustCompile(`[Pp]hoenix`)},
	{"RG", "Raskghar", regexp.MustCompile(`[Rr]askghar`)},
	{"RE", "Revenant", regexp.MustCompile(`[Rr]evenant`)},
	{"SW", "Seamwalker", regexp.MustCompile(`[Ss]eam[-]?[Ww]alker`)},
	{"SE", "Selphid", regexp.MustCompile(`[Ss]elphid`)},
	{"SL", "Slime", regexp.MustCompile(`[Ss]lime`)},
	{"SP", "String Person", regexp.MustCompile(`[Ss](titch|tring)`)},
	{"TI", "Titan", regexp.MustCompile(`[Tt]itan`)},
	{"TL", "Troll", regexp.MustCompile(`[Tt]roll`)},
	{"TR", "Treant", regexp.MustCompile(`[Tt]reant`)},
	{"UD", "Undead", regexp.MustCompile(`[Uu]ndead`)},
	{"UC", "Unicorn", regexp.MustCompile(`[Uu]nicorn`)},
	{"VA", "Vampire", regexp.MustCompile(`[Vv]ampire`)},
	{"WV", "Wyvern", regexp.MustCompile(`[Ww]yvern`)},
	{"WY", "Wyrm", regexp.MustCompile(`[Ww]yrm`)},
}

// SpeciesName returns the display name for a species code.
func SpeciesName(code string) string {
	for _, s := range SpeciesData {
		if s.Code == code {
			return s.Name
		}
	}
	return "Unknown"
}

var (
	aliveRe   = regexp.MustCompile(`^[Aa]live`)
	undeadRe  = regexp.MustCompile(`^[Uu]ndead`)
	deadRe    = regexp.MustCompile(`^([Dd]ead|[Dd]eceased)`)
	unknownRe = regexp.MustCompile(`^([Uu]nknown|[Uu]n-?clear)`)
)

// ParseStatus classifies a free-form wiki status string.
func ParseStatus(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case aliveRe.MatchString(s):
		return StatusAlive
	case undeadRe.MatchString(s):
		return StatusUndead
	case deadRe.MatchString(s):
		return StatusDead
	case unknownRe.MatchString(s):
		return StatusUnknown
	default:
		return StatusUnknown
	}
}

// ParseSpecies classifies a free-form wiki species string.
func ParseSpecies(s string) string {
	if s == "" {
		return SpeciesUnknown
	}
	for _, entry := range SpeciesData {
		if entry.Pattern.MatchString(s) {
			return entry.Code
		}
	}
	return SpeciesUnknown
}

type Character struct {
	RefTypeID      int      `json:"ref_type_id" gorm:"primaryKey"`
	RefType        RefType  `json:"ref_type,omitempty"`
	FirstChapterID *int     `json:"first_chapter_id"`
	FirstChapter   *Chapter `json:"first_chapter,omitempty" gorm:"foreignKey:FirstChapterID"`
	WikiURI        string   `json:"wiki_uri"`
	Status         string   `json:"status" gorm:"size:2"`
	Species        string   `json:"species" gorm:"size:2"`
}
