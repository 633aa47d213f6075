package stor

import (
	"strings"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"gorm.io/gorm"
)

type GormChapterStor struct {
	db *gorm.DB
}

func NewGormChapterStor(db *gorm.DB) *GormChapterStor {
	return &GormChapterStor{db: db}
}

func (s *GormChapterStor) CreateChapter(chapter *twimodel.Chapter) (*twimodel.Chapter, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(chapter).Error
	})
	return chapter, err
}

func (s *GormChapterStor) UpdateChapter(chapter *twimodel.Chapter) (*twimodel.Chapter, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Save(chapter).Error
	})
	return chapter, err
}

func (s *GormChapterStor) GetChapterByID(id int) (*twimodel.Chapter, error) {
	var chapter twimodel.Chapter
	if err := s.db.Preload("Book").Preload("Book.Volume").First(&chapter, id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *GormChapterStor) GetChapterByNumber(number int) (*twimodel.Chapter, error) {
	var chapter twimodel.Chapter
	err := s.db.Preload("Book").Preload("Book.Volume").
		Where("number = ?", number).First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *GormChapterStor) GetChapterByTitle(title string) (*twimodel.Chapter, error) {
	var chapter twimodel.Chapter
	if err := s.db.Where("title = ?", title).First(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

// GetChapterByURLEndpoint finds a chapter whose source URL contains the
// given path, tolerating a missing or extra trailing slash. Wiki pages
// link first appearances by URL, and those links drift on slashes.
func (s *GormChapterStor) GetChapterByURLEndpoint(endpoint string) (*twimodel.Chapter, error) {
	endpoint = strings.TrimSpace(endpoint)
	trimmed := strings.TrimSuffix(endpoint, "/")

	var chapter twimodel.Chapter
	err := s.db.
		Where("source_url LIKE ? OR source_url LIKE ?", "%"+trimmed, "%"+trimmed+"/").
		First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *GormChapterStor) ListChapters(canonOnly bool) ([]twimodel.Chapter, error) {
	var chapters []twimodel.Chapter
	q := s.db.Preload("Book").Preload("Book.Volume").Order("number")
	if canonOnly {
		q = q.Where("is_canon = ?", true)
	}
	err := q.Find(&chapters).Error
	return chapters, err
}

func (s *GormChapterStor) MaxChapterNumber() (int, error) {
	var max int
	err := s.db.Model(&twimodel.Chapter{}).Select("COALESCE(MAX(number), 0)").Scan(&max).Error
	return max, err
}

func (s *GormChapterStor) TotalWordCount() (int64, error) {
	var total int64
	err := s.db.Model(&twimodel.Chapter{}).Select("COALESCE(SUM(word_count), 0)").Scan(&total).Error
	return total, err
}

func (s *GormChapterStor) LongestChapter() (*twimodel.Chapter, error) {
	var chapter twimodel.Chapter
	err := s.db.Where("is_canon = ?", true).Order("word_count desc").First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *GormChapterStor) ShortestChapter() (*twimodel.Chapter, error) {
	var chapter twimodel.Chapter
	err := s.db.Where("is_canon = ?", true).Order("word_count").First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *GormChapterStor) MedianWordCount() (float64, error) {
	var counts []int
	err := s.db.Model(&twimodel.Chapter{}).
		Where("is_canon = ?", true).
		Order("word_count").
		Pluck("word_count", &counts).Error
	if err != nil {
		return 0, err
	}

	n := len(counts)
	if n == 0 {
		return 0, nil
	}
	if n%2 == 0 {
		return float64(counts[n/2-1]+counts[n/2]) / 2.0, nil
	}
	return float64(counts[n/2]), nil
}

// ReplaceChapterLines rewrites the stored line set for a chapter. Lines
// are numbered from 0 in the order given.
func (s *GormChapterStor) ReplaceChapterLines(chapterID int, lines []string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapterID).Delete(&twimodel.ChapterLine{}).Error; err != nil {
			return err
		}
		for i, text := range lines {
			line := twimodel.ChapterLine{ChapterID: chapterID, LineNumber: i, Text: text}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormChapterStor) ListChapterLines(chapterID int) ([]twimodel.ChapterLine, error) {
	var lines []twimodel.ChapterLine
	err := s.db.Where("chapter_id = ?", chapterID).Order("line_number").Find(&lines).Error
	return lines, err
}
