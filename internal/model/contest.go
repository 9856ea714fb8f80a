package model

// Contest 外部平台的一场即将开始的比赛，不落库，仅走缓存
type Contest struct {
	Name            string `json:"name"`
	Platform        string `json:"platform"` // Codeforces / CodeChef
	StartTime       int64  `json:"startTime"` // 毫秒时间戳
	DurationSeconds int64  `json:"durationSeconds"`
	Link            string `json:"link"`
}
