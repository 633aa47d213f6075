package twimodel

type Volume struct {
	ID      int    `json:"id"`
	Number  int    `json:"number" gorm:"uniqueIndex"`
	Title   string `json:"title" gorm:"uniqueIndex"`
	Summary string `json:"summary"`
	Books   []Book `json:"books,omitempty"`
}

type Book struct {
	ID       int    `json:"id"`
	Number   int    `json:"number" gorm:"uniqueIndex:idx_volume_book_num"`
	Title    string `json:"title" gorm:"uniqueIndex:idx_volume_book_title"`
	VolumeID int    `json:"volume_id" gorm:"uniqueIndex:idx_volume_book_num;uniqueIndex:idx_volume_book_title"`
	Volume   Volume `json:"volume,omitempty"`
	Summary  string `json:"summary"`

	// TitleShort is the leading two words of the title, eg "Book 3".
	TitleShort string    `json:"title_short"`
	Chapters   []Chapter `json:"chapters,omitempty"`
}
