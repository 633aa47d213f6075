package twimodel

import (
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// RefType short-codes. A RefType is a canonical keyword or phrase that
// chapter text can reference, eg a character name or a [Skill].
const (
	RefTypeCharacter     = "CH"
	RefTypeClass         = "CL"
	RefTypeClassUpdate   = "CO"
	RefTypeCondition     = "CN"
	RefTypeItem          = "IT"
	RefTypeLocation      = "LO"
	RefTypeMiracle       = "MI"
	RefTypeMagicalChat   = "MC"
	RefTypeSkill         = "SK"
	RefTypeSkillUpdate   = "SO"
	RefTypeSpell         = "SP"
	RefTypeSpellUpdate   = "SB"
	RefTypeSystemGeneral = "SG"
	RefTypeUndecided     = "IN"
)

var RefTypeNames = map[string]string{
	RefTypeCharacter:     "Character",
	RefTypeClass:         "Class",
	RefTypeClassUpdate:   "Class Update",
	RefTypeCondition:     "Condition Update",
	RefTypeItem:          "Items and Artifacts",
	RefTypeLocation:      "Location",
	RefTypeMiracle:       "Miracle",
	RefTypeMagicalChat:   "Magical Chat",
	RefTypeSkill:         "Skill",
	RefTypeSkillUpdate:   "Skill Update",
	RefTypeSpell:         "Spell",
	RefTypeSpellUpdate:   "Spell Update",
	RefTypeSystemGeneral: "System General",
	RefTypeUndecided:     "Undecided",
}

// RefTypeCodes lists the valid short-codes in display order.
var RefTypeCodes = []string{
	RefTypeCharacter, RefTypeClass, RefTypeClassUpdate, RefTypeCondition,
	RefTypeItem, RefTypeLocation, RefTypeMiracle, RefTypeMagicalChat,
	RefTypeSkill, RefTypeSkillUpdate, RefTypeSpell, RefTypeSpellUpdate,
	RefTypeSystemGeneral, RefTypeUndecided,
}

// MatchRefTypeCode maps loose user input ("sk", "SKILL") to a short-code.
// Returns "" when no code matches.
func MatchRefTypeCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return ""
	}
	s = s[:2]
	for _, code := range RefTypeCodes {
		if code == s {
			return code
		}
	}
	return ""
}

type RefType struct {
	ID   int    `json:"id"`
	Name string `json:"name" gorm:"uniqueIndex:idx_name_and_type;index"`
	Type string `json:"type" gorm:"size:2;uniqueIndex:idx_name_and_type;index"`
	Slug string `json:"slug" gorm:"index"`
}

// BeforeSave keeps the slug in sync with the name. Slugs are capped so
// absurdly long bracket phrases still produce usable URLs.
func (rt *RefType) BeforeSave(_ *gorm.DB) error {
	name := rt.Name
	if len(name) > 100 {
		name = name[:100]
	}
	rt.Slug = slug.Make(name)
	return nil
}

// WordCount reports the number of whitespace separated words in the name.
func (rt *RefType) WordCount() int {
	return len(strings.Fields(rt.Name))
}

func (rt *RefType) LetterCount() int {
	return len(rt.Name)
}

type Alias struct {
	ID        int     `json:"id"`
	Name      string  `json:"name" gorm:"uniqueIndex:idx_alias_name_reftype"`
	RefTypeID int     `json:"ref_type_id" gorm:"uniqueIndex:idx_alias_name_reftype"`
	RefType   RefType `json:"ref_type,omitempty"`
}

// RefTypeChapter indexes the chapters in which a RefType has one or
// more references.
type RefTypeChapter struct {
	ID        int     `json:"id"`
	RefTypeID int     `json:"ref_type_id" gorm:"uniqueIndex:idx_reftype_chapter"`
	RefType   RefType `json:"ref_type,omitempty"`
	ChapterID int     `json:"chapter_id" gorm:"uniqueIndex:idx_reftype_chapter"`
	Chapter   Chapter `json:"chapter,omitempty"`
}

// RefTypeMention is a computed row: total TextRef mentions per RefType.
// Not a table; populated by aggregate queries.
type RefTypeMention struct {
	RefTypeID int    `json:"ref_type_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Slug      string `json:"slug"`
	Mentions  int    `json:"mentions"`
}
