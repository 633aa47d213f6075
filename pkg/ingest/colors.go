// Package ingest builds the database from archived chapters and wiki
// records: volumes, books, chapters, chapter lines, entity types and
// located text references.
package ingest

import (
	"github.com/apex/log"

	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
)

// Color categories as the wiki documents them.
const (
	catInvisible         = "Invisible skills/text"
	catSirenWater        = "Siren water skill"
	catCeriaCold         = "Ceria cold skill"
	catMagnoliaCharm     = "Magnolia charm skill"
	catFlyingQueen       = "Flying Queen talking"
	catTwistedQueen      = "Twisted Queen talking"
	catArmoredQueen      = "Armored Queen talking"
	catSilentQueen       = "Silent Queen talking and purple skills"
	catGrandQueen        = "Grand Queen talking"
	catSpringFae         = "Spring fae talking"
	catSummerFae         = "Summer fae talking"
	catWinterFae         = "Winter fae talking"
	catOtherFae          = "Other fae or Oberon"
	catClassRestoration  = "Class restoration / Conviction skill"
	catDivineTemp        = "Divine/Temporary skills"
	catErinLandmark      = "Erin's landmark skill"
	catUniqueSkill       = "Unique skills"
	catIvoletheFire      = "Ivolethe summoning fire"
	catColoredMagicFire  = "Magical fire of various colors"
	catSerRaim           = "Ser Raim skill"
	catRed               = "Red skills and classes"
	catRyokaMaudlin      = "Ryoka's guilt/depression"
	catRyokaHate         = "Ryoka's rage/indignation/self-hate"
	catRyokaOther        = "Ryoka's other colored speech"
	catDarkness          = "Darkness / fading light"
	catPlain             = "Normal appearing text to overwrite link text color"
	catAuthoritySkill    = "Authority based skills"
	catRareQuest         = "Rare Quests"
	catHeroicQuest       = "Heroic Quests"
	catMythicalQuest     = "Mythical Quests"
	catOtherMagic        = "Other colors related to magic or spellcasting"
	catDragonFire        = "Dragon fire"
	catLightSkill        = "Light-based or sun skills"
	catHeritage          = "Heritage based skills/classes"
	catXrn               = "Xrn's various colored speech"
	catMemory            = "Memory based speech e.g. Velan"
	catGhosts            = "Ghosts"
)

type colorSeed struct {
	rgb      string
	category string
}

var colorSeeds = []colorSeed{
	// Ice/water/Ceria
	{"3366FF", catCeriaCold},
	{"99CCFF", catCeriaCold},
	{"CCFFFF", catCeriaCold},
	{"00CCFF", catSirenWater},
	// Magnolia/charm skills
	{"FB00FF", catMagnoliaCharm},
	{"FD78FF", catMagnoliaCharm},
	{"FFB8FD", catMagnoliaCharm},
	{"FDDBFF", catMagnoliaCharm},
	{"FEEDFF", catMagnoliaCharm},
	{"F1A1FF", catMagnoliaCharm},
	{"FF00FF", catMagnoliaCharm},
	{"D5A6BD", catMagnoliaCharm},
	// Antinium
	{"99CC00", catFlyingQueen},
	{"993300", catTwistedQueen},
	{"999999", catArmoredQueen},
	{"9E89A7", catArmoredQueen},
	{"CB85E9", catArmoredQueen},
	{"D9D9D9", catArmoredQueen},
	{"CC99FF", catSilentQueen},
	{"FFCC00", catGrandQueen},
	// Xrn
	{"C20000", catXrn},
	{"E8D05A", catXrn},
	{"2CA7D4", catXrn},
	{"BD72D4", catXrn},
	{"A3A3A3", catXrn},
	{"00FFF7", catXrn},
	{"FF4D00", catXrn},
	{"FFFFFF", catXrn},
	{"99CC00", catXrn},
	{"FFFF00", catXrn},
	{"C73838", catXrn},
	{"95C754", catXrn},
	{"5D2299", catXrn},
	{"CC99FF", catXrn},
	{"FF6600", catXrn},
	{"00FF00", catXrn},
	{"FF0000", catXrn},
	{"FFBF00", catXrn},
	{"3366FF", catXrn},
	{"FF99CC", catXrn},
	{"CCFFFF", catXrn},
	{"C800FF", catXrn},
	{"76A5AF", catXrn},
	// Fae
	{"96BE50", catSpringFae},
	{"FFFD73", catSummerFae},
	{"8AE8FF", catWinterFae},
	{"9234D1", catOtherFae},
	{"DE7A10", catOtherFae},
	{"D9F7FF", catOtherFae},
	// Bad things
	{"FF0000", catRed},
	{"6B0000", catRed},
	{"CC0000", catRed},
	{"E67A7A", catRed},
	{"4D0E03", catRed},
	// Special classes/skills
	{"99CCFF", catClassRestoration},
	{"FFD700", catDivineTemp},
	{"FF9900", catErinLandmark},
	{"99CC00", catUniqueSkill},
	{"CC99FF", catAuthoritySkill},
	// Magic fire
	{"FF3700", catDragonFire},
	{"E01D1D", catIvoletheFire},
	{"EB0E0E", catSerRaim},
	{"FF99CC", catColoredMagicFire},
	{"FF95FF", catColoredMagicFire},
	{"A64D79", catColoredMagicFire},
	{"FFFF99", catColoredMagicFire},
	{"FFCC00", catColoredMagicFire},
	{"FF6600", catColoredMagicFire},
	{"FF0000", catColoredMagicFire},
	{"00FF40", catColoredMagicFire},
	// Other magic
	{"339966", catOtherMagic},
	{"800000", catOtherMagic},
	{"947257", catOtherMagic},
	{"FFCC00", catOtherMagic},
	{"8AE8FF", catOtherMagic},
	{"96BE50", catOtherMagic},
	{"801717", catOtherMagic},
	{"FF0000", catOtherMagic},
	{"00FFFF", catOtherMagic},
	{"00FF00", catOtherMagic},
	{"E99FD0", catOtherMagic},
	{"DFFCAC", catOtherMagic},
	{"FFFF99", catLightSkill},
	// Ryoka
	{"9FC5E8", catRyokaMaudlin},
	{"EA9999", catRyokaHate},
	{"C27BA0", catRyokaOther},
	{"B6D7A8", catRyokaOther},
	{"E69138", catRyokaOther},
	{"F6B26B", catRyokaOther},
	{"99CC00", catRyokaOther},
	{"FF00FF", catRyokaOther},
	{"FF9900", catRyokaOther},
	{"99CCFF", catRyokaOther},
	// Quests
	{"95E094", catRareQuest},
	{"F29B68", catHeroicQuest},
	{"EEB81B", catMythicalQuest},
	// Other
	{"CBF2F3", catHeritage},
	{"FFFF99", catMemory},
	{"BDD2DB", catGhosts},
	// Darkness
	{"787878", catDarkness},
	{"575757", catDarkness},
	{"333333", catDarkness},
	{"8F8F8F", catDarkness},
	{"404040", catDarkness},
	{"0C0E0E", catInvisible},
	{"B7B7B7", catPlain},
}

// SeedColors upserts the known color categories and colors. Safe to run
// on every build.
func SeedColors(colorStor stor.ColorStor) error {
	for _, seed := range colorSeeds {
		if !twimodel.ValidRGB(seed.rgb) {
			log.WithField("rgb", seed.rgb).Warn("skipping invalid seed color")
			continue
		}

		category, err := colorStor.GetOrCreateCategory(seed.category)
		if err != nil {
			return err
		}

		if _, err := colorStor.GetOrCreateColor(seed.rgb, category.ID); err != nil {
			return err
		}
	}
	return nil
}
