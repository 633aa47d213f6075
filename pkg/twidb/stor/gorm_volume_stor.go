package stor

import (
	"regexp"
	"strings"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"gorm.io/gorm"
)

type GormVolumeStor struct {
	db *gorm.DB
}

func NewGormVolumeStor(db *gorm.DB) *GormVolumeStor {
	return &GormVolumeStor{db: db}
}

func (s *GormVolumeStor) CreateVolume(volume *twimodel.Volume) (*twimodel.Volume, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(volume).Error
	})
	return volume, err
}

func (s *GormVolumeStor) GetVolumeByTitle(title string) (*twimodel.Volume, error) {
	var volume twimodel.Volume
	if err := s.db.Where("title = ?", title).First(&volume).Error; err != nil {
		return nil, err
	}
	return &volume, nil
}

func (s *GormVolumeStor) GetVolumeByNumber(number int) (*twimodel.Volume, error) {
	var volume twimodel.Volume
	if err := s.db.Where("number = ?", number).First(&volume).Error; err != nil {
		return nil, err
	}
	return &volume, nil
}

func (s *GormVolumeStor) ListVolumes() ([]twimodel.Volume, error) {
	var volumes []twimodel.Volume
	err := s.db.Preload("Books").Order("number").Find(&volumes).Error
	return volumes, err
}

var bookTitleShortRe = regexp.MustCompile(`^(\w+\s\w+)\s`)

func (s *GormVolumeStor) CreateBook(book *twimodel.Book) (*twimodel.Book, error) {
	if m := bookTitleShortRe.FindStringSubmatch(book.Title); m != nil {
		book.TitleShort = strings.TrimSpace(m[1])
	} else {
		book.TitleShort = book.Title
	}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(book).Error
	})
	return book, err
}

func (s *GormVolumeStor) GetBookByTitle(volumeID int, title string) (*twimodel.Book, error) {
	var book twimodel.Book
	if err := s.db.Where("volume_id = ? AND title = ?", volumeID, title).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *GormVolumeStor) ListBooksForVolume(volumeID int) ([]twimodel.Book, error) {
	var books []twimodel.Book
	err := s.db.Where("volume_id = ?", volumeID).Order("number").Find(&books).Error
	return books, err
}
