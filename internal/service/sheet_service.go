package service

import (
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/repository"
	"leet_track_backend/internal/util"

	"gorm.io/gorm"
)

type SheetService struct {
	SheetRepo    *repository.SheetRepository
	ProgressRepo *repository.ProgressRepository
	StudentRepo  *repository.StudentRepository
}

func NewSheetService(sheetRepo *repository.SheetRepository, progressRepo *repository.ProgressRepository, studentRepo *repository.StudentRepository) *SheetService {
	return &SheetService{
		SheetRepo:    sheetRepo,
		ProgressRepo: progressRepo,
		StudentRepo:  studentRepo,
	}
}

func (s *SheetService) ListSheets() ([]string, error) {
	return s.SheetRepo.ListSheetNames()
}

func (s *SheetService) GetSheetContent(sheetName string) ([]model.DsaSheet, error) {
	sheets, err := s.SheetRepo.FindBySheetName(sheetName)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, util.ErrSheetNotFound
	}
	return sheets, nil
}

func (s *SheetService) GetStudentProgress(studentID uint, sheetName string) ([]model.StudentSheetProgress, error) {
	return s.ProgressRepo.FindByStudentAndSheet(studentID, sheetName)
}

// ToggleProgress 切换一道题的完成状态：已完成则移除，未完成则加入
func (s *SheetService) ToggleProgress(studentID uint, sheetName, topic, problemID string) (*model.StudentSheetProgress, error) {
	progress, err := s.ProgressRepo.FindOne(studentID, sheetName, topic)
	if err == gorm.ErrRecordNotFound {
		progress = &model.StudentSheetProgress{
			StudentID:         studentID,
			SheetName:         sheetName,
			Topic:             topic,
			CompletedProblems: []string{problemID},
		}
		return progress, s.ProgressRepo.Save(progress)
	} else if err != nil {
		return nil, err
	}

	found := false
	completed := make([]string, 0, len(progress.CompletedProblems))
	for _, id := range progress.CompletedProblems {
		if id == problemID {
			found = true
			continue
		}
		completed = append(completed, id)
	}
	if !found {
		completed = append(completed, problemID)
	}
	progress.CompletedProblems = completed

	return progress, s.ProgressRepo.Save(progress)
}

// UpsertSheet 管理端新建或整体替换某清单某专题下的题目集合。
// 没有 problemId 的题目自动分配一个。
func (s *SheetService) UpsertSheet(sheetName, topic string, problems []model.SheetProblem) (*model.DsaSheet, error) {
	for i := range problems {
		if problems[i].ProblemID == "" {
			problems[i].ProblemID = model.GenerateProblemID()
		}
	}

	sheet, err := s.SheetRepo.FindOne(sheetName, topic)
	if err == gorm.ErrRecordNotFound {
		sheet = &model.DsaSheet{SheetName: sheetName, Topic: topic}
	} else if err != nil {
		return nil, err
	}

	sheet.Problems = problems
	return sheet, s.SheetRepo.Save(sheet)
}

// DeleteTopic 删除某清单下的一个专题
func (s *SheetService) DeleteTopic(sheetName, topic string) error {
	return s.SheetRepo.DeleteTopic(sheetName, topic)
}

// SheetProgressOverview 管理端视角的单个学生进度
type SheetProgressOverview struct {
	StudentID         uint     `json:"studentId"`
	StudentName       string   `json:"studentName"`
	Section           string   `json:"section"`
	Topic             string   `json:"topic"`
	CompletedProblems []string `json:"completedProblems"`
}

// GetSheetOverview 某清单下所有学生的进度，附带学生姓名和班级
func (s *SheetService) GetSheetOverview(sheetName string) ([]SheetProgressOverview, error) {
	progress, err := s.ProgressRepo.FindBySheet(sheetName)
	if err != nil {
		return nil, err
	}

	students, err := s.StudentRepo.FindAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]model.Student, len(students))
	for _, student := range students {
		byID[student.ID] = student
	}

	overview := make([]SheetProgressOverview, 0, len(progress))
	for _, p := range progress {
		entry := SheetProgressOverview{
			StudentID:         p.StudentID,
			Topic:             p.Topic,
			CompletedProblems: p.CompletedProblems,
		}
		if student, ok := byID[p.StudentID]; ok {
			entry.StudentName = student.Name
			entry.Section = student.Section
		}
		overview = append(overview, entry)
	}

	return overview, nil
}
