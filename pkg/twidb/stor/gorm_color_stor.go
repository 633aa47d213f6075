package stor

import (
	"strings"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormColorStor struct {
	db *gorm.DB
}

func NewGormColorStor(db *gorm.DB) *GormColorStor {
	return &GormColorStor{db: db}
}

func (s *GormColorStor) GetOrCreateCategory(name string) (*twimodel.ColorCategory, error) {
	var category twimodel.ColorCategory
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Where(twimodel.ColorCategory{Name: name}).FirstOrCreate(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *GormColorStor) GetOrCreateColor(rgb string, categoryID int) (*twimodel.Color, error) {
	rgb = strings.ToUpper(strings.TrimPrefix(rgb, "#"))
	if !twimodel.ValidRGB(rgb) {
		return nil, errors.Errorf("invalid rgb color: %q", rgb)
	}

	var color twimodel.Color
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Where(twimodel.Color{RGB: rgb, CategoryID: categoryID}).FirstOrCreate(&color).Error
	})
	if err != nil {
		return nil, err
	}
	return &color, nil
}

func (s *GormColorStor) GetColorsByRGB(rgb string) ([]twimodel.Color, error) {
	rgb = strings.ToUpper(strings.TrimPrefix(rgb, "#"))
	var colors []twimodel.Color
	err := s.db.Preload("Category").Where("rgb = ?", rgb).Order("rgb").Find(&colors).Error
	return colors, err
}
