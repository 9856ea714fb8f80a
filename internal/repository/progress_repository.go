package repository

import (
	"leet_track_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByStudentAndSheet(studentID uint, sheetName string) ([]model.StudentSheetProgress, error) {
	var progress []model.StudentSheetProgress
	err := r.DB.Where("student_id = ? AND sheet_name = ?", studentID, sheetName).Find(&progress).Error
	return progress, err
}

func (r *ProgressRepository) FindOne(studentID uint, sheetName, topic string) (*model.StudentSheetProgress, error) {
	var progress model.StudentSheetProgress
	err := r.DB.Where("student_id = ? AND sheet_name = ? AND topic = ?", studentID, sheetName, topic).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(progress *model.StudentSheetProgress) error {
	return r.DB.Save(progress).Error
}

// FindBySheet 某清单下所有学生的进度，管理端总览使用
func (r *ProgressRepository) FindBySheet(sheetName string) ([]model.StudentSheetProgress, error) {
	var progress []model.StudentSheetProgress
	err := r.DB.Where("sheet_name = ?", sheetName).Find(&progress).Error
	return progress, err
}

func (r *ProgressRepository) DeleteByStudent(studentID uint) error {
	return r.DB.Where("student_id = ?", studentID).Delete(&model.StudentSheetProgress{}).Error
}
