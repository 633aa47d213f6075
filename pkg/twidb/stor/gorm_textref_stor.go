package stor

import (
	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"gorm.io/gorm"
)

type GormTextRefStor struct {
	db *gorm.DB
}

func NewGormTextRefStor(db *gorm.DB) *GormTextRefStor {
	return &GormTextRefStor{db: db}
}

// CreateTextRef inserts a TextRef unless one already exists for the
// same (line, start, end) key. The bool result reports whether a row
// was created, which keeps re-runs of the build idempotent.
func (s *GormTextRefStor) CreateTextRef(textRef *twimodel.TextRef) (*twimodel.TextRef, bool, error) {
	var existing twimodel.TextRef
	err := s.db.Where("chapter_line_id = ? AND start_column = ? AND end_column = ?",
		textRef.ChapterLineID, textRef.StartColumn, textRef.EndColumn).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(textRef).Error
	})
	if err != nil {
		return nil, false, err
	}
	return textRef, true, nil
}

func (s *GormTextRefStor) ListTextRefsForChapter(chapterID int) ([]twimodel.TextRef, error) {
	var refs []twimodel.TextRef
	err := s.db.
		Joins("JOIN chapter_lines ON chapter_lines.id = text_refs.chapter_line_id").
		Where("chapter_lines.chapter_id = ?", chapterID).
		Preload("RefType").Preload("ChapterLine").Preload("Color").
		Order("chapter_lines.line_number, text_refs.start_column").
		Find(&refs).Error
	return refs, err
}

func (s *GormTextRefStor) ListTextRefsForRefType(refTypeID int) ([]twimodel.TextRef, error) {
	var refs []twimodel.TextRef
	err := s.db.
		Joins("JOIN chapter_lines ON chapter_lines.id = text_refs.chapter_line_id").
		Joins("JOIN chapters ON chapters.id = chapter_lines.chapter_id").
		Where("text_refs.ref_type_id = ?", refTypeID).
		Preload("ChapterLine").Preload("ChapterLine.Chapter").
		Order("chapters.number, chapter_lines.line_number, text_refs.start_column").
		Find(&refs).Error
	return refs, err
}

func (s *GormTextRefStor) SearchTextRefs(search TextRefSearch) ([]TextRefSearchRow, int64, error) {
	q := s.db.Model(&twimodel.TextRef{}).
		Select(`ref_types.name as ref_type_name,
			ref_types.slug as ref_type_slug,
			chapter_lines.text as text,
			chapters.title as chapter_title,
			chapters.number as chapter_number,
			chapters.source_url as source_url,
			chapter_lines.line_number as line_number,
			text_refs.start_column as start_column,
			text_refs.end_column as end_column,
			COALESCE(colors.rgb, '') as color_rgb`).
		Joins("JOIN ref_types ON ref_types.id = text_refs.ref_type_id").
		Joins("JOIN chapter_lines ON chapter_lines.id = text_refs.chapter_line_id").
		Joins("JOIN chapters ON chapters.id = chapter_lines.chapter_id").
		Joins("LEFT JOIN colors ON colors.id = text_refs.color_id")

	if search.Type != "" {
		q = q.Where("ref_types.type = ?", search.Type)
	}
	if search.NameQuery != "" {
		q = q.Where("ref_types.name LIKE ?", "%"+search.NameQuery+"%")
	}
	if search.TextQuery != "" {
		q = q.Where("chapter_lines.text LIKE ?", "%"+search.TextQuery+"%")
	}
	if search.FirstChapter > 0 {
		q = q.Where("chapters.number >= ?", search.FirstChapter)
	}
	if search.LastChapter > 0 {
		q = q.Where("chapters.number <= ?", search.LastChapter)
	}
	if search.OnlyColored {
		q = q.Where("text_refs.color_id IS NOT NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("chapters.number, chapter_lines.line_number, text_refs.start_column")

	if search.PageSize > 0 {
		page := search.Page
		if page < 1 {
			page = 1
		}
		q = q.Limit(search.PageSize).Offset((page - 1) * search.PageSize)
	}

	var rows []TextRefSearchRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *GormTextRefStor) CountMentions(refTypeID int) (int64, error) {
	var count int64
	err := s.db.Model(&twimodel.TextRef{}).Where("ref_type_id = ?", refTypeID).Count(&count).Error
	return count, err
}

func (s *GormTextRefStor) ListMentionsByType(rtType string) ([]twimodel.RefTypeMention, error) {
	var mentions []twimodel.RefTypeMention
	err := s.db.Model(&twimodel.TextRef{}).
		Select(`ref_types.id as ref_type_id,
			ref_types.name as name,
			ref_types.type as type,
			ref_types.slug as slug,
			count(*) as mentions`).
		Joins("JOIN ref_types ON ref_types.id = text_refs.ref_type_id").
		Where("ref_types.type = ?", rtType).
		Group("ref_types.id, ref_types.name, ref_types.type, ref_types.slug").
		Order("mentions desc").
		Scan(&mentions).Error
	return mentions, err
}

func (s *GormTextRefStor) GetOrCreateRefTypeChapter(refTypeID, chapterID int) (*twimodel.RefTypeChapter, bool, error) {
	var rtc twimodel.RefTypeChapter
	err := s.db.Where("ref_type_id = ? AND chapter_id = ?", refTypeID, chapterID).First(&rtc).Error
	if err == nil {
		return &rtc, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	rtc = twimodel.RefTypeChapter{RefTypeID: refTypeID, ChapterID: chapterID}
	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(&rtc).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &rtc, true, nil
}

func (s *GormTextRefStor) ListChaptersForRefType(refTypeID int) ([]twimodel.Chapter, error) {
	var chapters []twimodel.Chapter
	err := s.db.
		Joins("JOIN ref_type_chapters ON ref_type_chapters.chapter_id = chapters.id").
		Where("ref_type_chapters.ref_type_id = ?", refTypeID).
		Order("chapters.number").
		Find(&chapters).Error
	return chapters, err
}

func (s *GormTextRefStor) ListChapterIDsWithTextRefs(refTypeID int) ([]int, error) {
	var ids []int
	err := s.db.Model(&twimodel.TextRef{}).
		Joins("JOIN chapter_lines ON chapter_lines.id = text_refs.chapter_line_id").
		Where("text_refs.ref_type_id = ?", refTypeID).
		Distinct().
		Pluck("chapter_lines.chapter_id", &ids).Error
	return ids, err
}
