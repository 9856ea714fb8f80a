package model

// SheetProblem 刷题清单中的一道题
type SheetProblem struct {
	ProblemID  string `json:"problemId"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"` // Easy / Medium / Hard
	Link       string `json:"link"`
}

// DsaSheet 刷题清单中某个专题下的题目集合，(sheetName, topic) 唯一
// swagger:model DsaSheet
type DsaSheet struct {
	BaseModel
	SheetName string         `gorm:"size:100;not null;uniqueIndex:idx_sheet_topic" json:"sheetName"`
	Topic     string         `gorm:"size:100;not null;uniqueIndex:idx_sheet_topic" json:"topic"`
	Problems  []SheetProblem `gorm:"serializer:json;type:json" json:"problems"`
}

func (DsaSheet) TableName() string {
	return "dsa_sheets"
}

// StudentSheetProgress 学生在某清单某专题下已完成的题目，(studentId, sheetName, topic) 唯一
// swagger:model StudentSheetProgress
type StudentSheetProgress struct {
	BaseModel
	StudentID         uint     `gorm:"not null;uniqueIndex:idx_student_sheet_topic" json:"studentId"`
	SheetName         string   `gorm:"size:100;not null;uniqueIndex:idx_student_sheet_topic" json:"sheetName"`
	Topic             string   `gorm:"size:100;not null;uniqueIndex:idx_student_sheet_topic" json:"topic"`
	CompletedProblems []string `gorm:"serializer:json;type:json" json:"completedProblems"`
}

func (StudentSheetProgress) TableName() string {
	return "student_sheet_progress"
}
