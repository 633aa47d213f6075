package twimodel

// Detail rows attach wiki metadata to a RefType of the matching type.
// They all share the same shape; Character carries extra fields and
// lives in character.go.

type Item struct {
	ID             int      `json:"id"`
	RefTypeID      int      `json:"ref_type_id" gorm:"uniqueIndex"`
	RefType        RefType  `json:"ref_type,omitempty"`
	FirstChapterID *int     `json:"first_chapter_id"`
	FirstChapter   *Chapter `json:"first_chapter,omitempty" gorm:"foreignKey:FirstChapterID"`
	WikiURI        string   `json:"wiki_uri"`
}

type Location struct {
	ID             int      `json:"id"`
	RefTypeID      int      `json:"ref_type_id" gorm:"uniqueIndex"`
	RefType        RefType  `json:"ref_type,omitempty"`
	FirstChapterID *int     `json:"first_chapter_id"`
	FirstChapter   *Chapter `json:"first_chapter,omitempty" gorm:"foreignKey:FirstChapterID"`
	WikiURI        string   `json:"wiki_uri"`
}

type Skill struct {
	ID             int      `json:"id"`
	RefTypeID      int      `json:"ref_type_id" gorm:"uniqueIndex"`
	RefType        RefType  `json:"ref_type,omitempty"`
	FirstChapterID *int     `json:"first_chapter_id"`
	FirstChapter   *Chapter `json:"first_chapter,omitempty" gorm:"foreignKey:FirstChapterID"`
	WikiURI        string   `json:"wiki_uri"`
}

type Spell struct {
	ID             int      `json:"id"`
	RefTypeID      int      `json:"ref_type_id" gorm:"uniqueIndex"`
	RefType        RefType  `json:"ref_type,omitempty"`
	FirstChapterID *int     `json:"first_chapter_id"`
	FirstChapter   *Chapter `json:"first_chapter,omitempty" gorm:"foreignKey:FirstChapterID"`
	WikiURI        string   `json:"wiki_uri"`
}
