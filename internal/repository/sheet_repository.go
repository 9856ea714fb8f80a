package repository

import (
	"leet_track_backend/internal/model"

	"gorm.io/gorm"
)

type SheetRepository struct {
	DB *gorm.DB
}

func NewSheetRepository(db *gorm.DB) *SheetRepository {
	return &SheetRepository{DB: db}
}

// ListSheetNames 返回去重后的清单名称，用作前端标签页
func (r *SheetRepository) ListSheetNames() ([]string, error) {
	var names []string
	err := r.DB.Model(&model.DsaSheet{}).Distinct("sheet_name").Order("sheet_name").Pluck("sheet_name", &names).Error
	return names, err
}

func (r *SheetRepository) FindBySheetName(sheetName string) ([]model.DsaSheet, error) {
	var sheets []model.DsaSheet
	err := r.DB.Where("sheet_name = ?", sheetName).Order("id").Find(&sheets).Error
	return sheets, err
}

func (r *SheetRepository) FindOne(sheetName, topic string) (*model.DsaSheet, error) {
	var sheet model.DsaSheet
	err := r.DB.Where("sheet_name = ? AND topic = ?", sheetName, topic).First(&sheet).Error
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *SheetRepository) Save(sheet *model.DsaSheet) error {
	return r.DB.Save(sheet).Error
}

func (r *SheetRepository) DeleteTopic(sheetName, topic string) error {
	return r.DB.Where("sheet_name = ? AND topic = ?", sheetName, topic).Delete(&model.DsaSheet{}).Error
}
