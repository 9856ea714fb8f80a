package model

import (
	"time"
)

// Topic 单个算法知识点的累计解题数，来自 LeetCode skillStats
type Topic struct {
	TagName string `json:"tagName"`
	TagSlug string `json:"tagSlug"`
	Count   int    `json:"count"`
}

// Stats LeetCode 聚合统计快照。SubmissionCalendar 的 key 为天粒度的 unix 时间戳（字符串）
type Stats struct {
	TotalSolved        int            `json:"totalSolved"`
	EasySolved         int            `json:"easySolved"`
	MediumSolved       int            `json:"mediumSolved"`
	HardSolved         int            `json:"hardSolved"`
	Ranking            int            `json:"ranking"`
	Reputation         int            `json:"reputation"`
	SubmissionCalendar map[string]int `json:"submissionCalendar"`
	Topics             []Topic        `json:"topics"`
}

// RecentSubmission 最近一次提交记录（最新在前）
type RecentSubmission struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Lang      string `json:"lang,omitempty"`
}

// Streak 连续刷题天数
type Streak struct {
	CurrentStreak  int       `json:"currentStreak"`
	MaxStreak      int       `json:"maxStreak"`
	LastActiveDate time.Time `json:"lastActiveDate"`
}

// ProgressAnalysis 文本生成服务产出的进度分析，LastAnalyzedAt 用于 24 小时限频
type ProgressAnalysis struct {
	WeakTopics      []string  `json:"weakTopics"`
	StrongTopics    []string  `json:"strongTopics"`
	ImprovementPlan string    `json:"improvementPlan"`
	Suggestions     []string  `json:"suggestions"`
	Summary         string    `json:"summary"`
	LastAnalyzedAt  time.Time `json:"lastAnalyzedAt"`
}

// swagger:model Student
type Student struct {
	BaseModel
	LibraryID        string `gorm:"size:50;unique;not null" json:"libraryId"`
	PasswordHash     string `gorm:"size:100;not null" json:"-"`
	Name             string `gorm:"size:100;not null" json:"name"`
	Section          string `gorm:"size:20" json:"section"`
	Year             int    `json:"year"`
	LeetCodeUsername string `gorm:"size:100" json:"leetcodeUsername"`

	Stats             Stats              `gorm:"serializer:json;type:json" json:"stats"`
	RecentSubmissions []RecentSubmission `gorm:"serializer:json;type:json" json:"recentSubmissions"`
	Streak            Streak             `gorm:"serializer:json;type:json" json:"streak"`

	// 为空表示从未生成过分析
	AIProgressAnalysis *ProgressAnalysis `gorm:"serializer:json;type:json" json:"aiProgressAnalysis,omitempty"`

	// 上一次同步尝试的时间，冷却窗口以它为基准（部分失败也会推进）
	LastUpdated time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastUpdated"`
}

func (Student) TableName() string {
	return "students"
}

// LeaderboardEntry 排行榜单行，按 totalSolved 降序
type LeaderboardEntry struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	LibraryID        string `json:"libraryId"`
	Section          string `json:"section"`
	Year             int    `json:"year"`
	LeetCodeUsername string `json:"leetcodeUsername"`
	TotalSolved      int    `json:"totalSolved"`
	Ranking          int    `json:"ranking"`
}
