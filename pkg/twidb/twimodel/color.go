package twimodel

import "regexp"

type ColorCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name" gorm:"uniqueIndex"`
}

var rgbRe = regexp.MustCompile(`^[a-fA-F\d]{6}$`)

// Color is a text color seen in chapter HTML, keyed by 6-digit hex RGB.
// The same RGB can appear under multiple categories.
type Color struct {
	ID         int           `json:"id"`
	RGB        string        `json:"rgb" gorm:"size:6;uniqueIndex:idx_rgb_category"`
	CategoryID int           `json:"category_id" gorm:"uniqueIndex:idx_rgb_category"`
	Category   ColorCategory `json:"category,omitempty"`
}

// ValidRGB reports whether s is a 6-digit hex color without a leading '#'.
func ValidRGB(s string) bool {
	return rgbRe.MatchString(s)
}
