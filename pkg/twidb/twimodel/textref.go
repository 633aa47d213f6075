package twimodel

// TextRef records a single occurrence of a RefType mention within a
// chapter line. StartColumn/EndColumn are rune offsets into the line.
type TextRef struct {
	ID            int         `json:"id"`
	ChapterLineID int         `json:"chapter_line_id" gorm:"uniqueIndex:idx_textref_key"`
	ChapterLine   ChapterLine `json:"chapter_line,omitempty"`
	RefTypeID     int         `json:"ref_type_id" gorm:"index"`
	RefType       RefType     `json:"ref_type,omitempty"`
	ColorID       *int        `json:"color_id"`
	Color         *Color      `json:"color,omitempty"`
	StartColumn   int         `json:"start_column" gorm:"uniqueIndex:idx_textref_key"`
	EndColumn     int         `json:"end_column" gorm:"uniqueIndex:idx_textref_key"`
}
