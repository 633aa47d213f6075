package stor

import (
	"github.com/innverse/twistats/pkg/twidb/twimodel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRefTypeStor struct {
	db *gorm.DB
}

func NewGormRefTypeStor(db *gorm.DB) *GormRefTypeStor {
	return &GormRefTypeStor{db: db}
}

func (s *GormRefTypeStor) CreateRefType(refType *twimodel.RefType) (*twimodel.RefType, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(refType).Error
	})
	return refType, err
}

func (s *GormRefTypeStor) GetRefType(name, rtType string) (*twimodel.RefType, error) {
	var refType twimodel.RefType
	err := s.db.Where("name = ? AND type = ?", name, rtType).First(&refType).Error
	if err != nil {
		return nil, err
	}
	return &refType, nil
}

func (s *GormRefTypeStor) GetRefTypeBySlug(slug string) (*twimodel.RefType, error) {
	var refType twimodel.RefType
	if err := s.db.Where("slug = ?", slug).First(&refType).Error; err != nil {
		return nil, err
	}
	return &refType, nil
}

func (s *GormRefTypeStor) ListRefTypesByName(name string) ([]twimodel.RefType, error) {
	var refTypes []twimodel.RefType
	err := s.db.Where("name = ?", name).Order("type").Find(&refTypes).Error
	return refTypes, err
}

func (s *GormRefTypeStor) ListRefTypesByType(rtType string) ([]twimodel.RefType, error) {
	var refTypes []twimodel.RefType
	err := s.db.Where("type = ?", rtType).Order("name").Find(&refTypes).Error
	return refTypes, err
}

func (s *GormRefTypeStor) ListAllRefTypes() ([]twimodel.RefType, error) {
	var refTypes []twimodel.RefType
	err := s.db.Order("name").Find(&refTypes).Error
	return refTypes, err
}

func (s *GormRefTypeStor) CountRefTypesByType(rtType string) (int64, error) {
	var count int64
	err := s.db.Model(&twimodel.RefType{}).Where("type = ?", rtType).Count(&count).Error
	return count, err
}

func (s *GormRefTypeStor) CreateAlias(alias *twimodel.Alias) (*twimodel.Alias, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(alias).Error
	})
	return alias, err
}

// ListAliasesForRefType returns aliases longest name first so that
// pattern building matches the most specific alias.
func (s *GormRefTypeStor) ListAliasesForRefType(refTypeID int) ([]twimodel.Alias, error) {
	var aliases []twimodel.Alias
	err := s.db.Where("ref_type_id = ?", refTypeID).
		Order("LENGTH(name) desc").Find(&aliases).Error
	return aliases, err
}

func (s *GormRefTypeStor) SaveCharacter(character *twimodel.Character) (*twimodel.Character, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Save(character).Error
	})
	return character, err
}

func (s *GormRefTypeStor) GetCharacter(refTypeID int) (*twimodel.Character, error) {
	var character twimodel.Character
	err := s.db.Preload("RefType").Where("ref_type_id = ?", refTypeID).First(&character).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (s *GormRefTypeStor) CountDistinctSpecies() (int64, error) {
	var count int64
	err := s.db.Model(&twimodel.Character{}).Distinct("species").Count(&count).Error
	return count, err
}

func (s *GormRefTypeStor) CountCharactersBySpecies() (map[string]int64, error) {
	var rows []struct {
		Species string
		N       int64
	}
	err := s.db.Model(&twimodel.Character{}).
		Select("species, count(*) as n").
		Group("species").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Species] = row.N
	}
	return counts, nil
}

func (s *GormRefTypeStor) CountCharactersByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := s.db.Model(&twimodel.Character{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (s *GormRefTypeStor) SaveSkill(skill *twimodel.Skill) (*twimodel.Skill, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ref_type_id"}},
			UpdateAll: true,
		}).Create(skill).Error
	})
	return skill, err
}

func (s *GormRefTypeStor) SaveSpell(spell *twimodel.Spell) (*twimodel.Spell, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ref_type_id"}},
			UpdateAll: true,
		}).Create(spell).Error
	})
	return spell, err
}

func (s *GormRefTypeStor) SaveLocation(location *twimodel.Location) (*twimodel.Location, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ref_type_id"}},
			UpdateAll: true,
		}).Create(location).Error
	})
	return location, err
}

func (s *GormRefTypeStor) SaveItem(item *twimodel.Item) (*twimodel.Item, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ref_type_id"}},
			UpdateAll: true,
		}).Create(item).Error
	})
	return item, err
}
