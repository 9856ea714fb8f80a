package repository

import (
	"leet_track_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, id).Error
	return &student, err
}

func (r *StudentRepository) FindByLibraryID(libraryID string) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("library_id = ?", libraryID).First(&student).Error
	return &student, err
}

func (r *StudentRepository) FindAll() ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Order("id").Find(&students).Error
	return students, err
}

// FindAllWithUsername 返回绑定了 LeetCode 用户名的学生，定时同步和排行榜只关心这部分
func (r *StudentRepository) FindAllWithUsername() ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Where("leet_code_username <> ''").Order("id").Find(&students).Error
	return students, err
}

func (r *StudentRepository) FindForLeaderboard(year int, section string) ([]model.Student, error) {
	query := r.DB.Where("leet_code_username <> ''")
	if year > 0 {
		query = query.Where("year = ?", year)
	}
	if section != "" {
		query = query.Where("section = ?", section)
	}

	var students []model.Student
	err := query.Find(&students).Error
	return students, err
}

func (r *StudentRepository) Save(student *model.Student) error {
	return r.DB.Save(student).Error
}

func (r *StudentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Student{}, id).Error
}
