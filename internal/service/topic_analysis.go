package service

import (
	"leet_track_backend/internal/model"
	"math"
)

// maxScoredTopics 只对解题数最高的前 N 个知识点评分
const maxScoredTopics = 15

// ScoringTier 按总解题量选择的评分参数
type ScoringTier struct {
	VolumeDivisor     float64
	StrengthThreshold float64
}

// SelectScoringTier 经验档位：刷题越多，量化门槛越高
func SelectScoringTier(totalSolved int) ScoringTier {
	switch {
	case totalSolved >= 1000:
		return ScoringTier{VolumeDivisor: 150, StrengthThreshold: 0.91}
	case totalSolved >= 700:
		return ScoringTier{VolumeDivisor: 120, StrengthThreshold: 0.86}
	case totalSolved >= 500:
		return ScoringTier{VolumeDivisor: 95, StrengthThreshold: 0.81}
	case totalSolved >= 300:
		return ScoringTier{VolumeDivisor: 50, StrengthThreshold: 0.75}
	default:
		return ScoringTier{VolumeDivisor: 35, StrengthThreshold: 0.73}
	}
}

// TopicScore 单个知识点的评分结果。难度拆分是按全局比例估算的，
// 不是平台给出的真实数据，字段名里始终带 estimated 以免误读。
type TopicScore struct {
	TopicName         string  `json:"topicName"`
	TotalSolved       int     `json:"totalSolved"`
	EstimatedEasy     int     `json:"estimatedEasy"`
	EstimatedMedium   int     `json:"estimatedMedium"`
	EstimatedHard     int     `json:"estimatedHard"`
	EstimatedAccuracy float64 `json:"estimatedAccuracy"`
	DifficultyScore   float64 `json:"difficultyScore"`
	VolumeScore       float64 `json:"volumeScore"`
	StrengthScore     float64 `json:"finalTopicStrengthScore"`
	Classification    string  `json:"classification"`
}

// ScoreTopics 对学生的知识点做强弱评分。纯函数，给定相同输入结果确定。
//
// 输出顺序保持输入顺序（抓取层已按解题数降序排好）。
// stats 中 totalSolved 与三档之和可能不一致（外部数据问题），这里不做校验，
// 比例计算只以 totalSolved 为分母（下限 1，避免除零）。
func ScoreTopics(topics []model.Topic, stats model.Stats) []TopicScore {
	totalGlobal := stats.TotalSolved
	if totalGlobal < 1 {
		totalGlobal = 1
	}

	tier := SelectScoringTier(stats.TotalSolved)

	easyRatio := float64(stats.EasySolved) / float64(totalGlobal)
	mediumRatio := float64(stats.MediumSolved) / float64(totalGlobal)
	hardRatio := float64(stats.HardSolved) / float64(totalGlobal)

	limit := len(topics)
	if limit > maxScoredTopics {
		limit = maxScoredTopics
	}

	scores := make([]TopicScore, 0, limit)
	for _, topic := range topics[:limit] {
		total := topic.Count

		// 全局难度比例按比例摊到该知识点上（四舍五入的估算值）
		easy := int(math.Round(float64(total) * easyRatio))
		medium := int(math.Round(float64(total) * mediumRatio))
		hard := int(math.Round(float64(total) * hardRatio))

		var accuracy, difficultyScore float64
		if total > 0 {
			accuracy = (float64(easy)*0.6 + float64(medium)*1.0 + float64(hard)*1.4) / float64(total) * 100
			accuracy = math.Min(accuracy, 90)
			difficultyScore = (float64(medium) + 2*float64(hard)) / float64(total)
		}

		volumeScore := math.Min(float64(total)/tier.VolumeDivisor, 1)

		strength := 0.20*(accuracy/100) + 0.35*difficultyScore + 0.45*volumeScore
		strength = math.Round(strength*100) / 100

		classification := "Weak"
		if strength > tier.StrengthThreshold {
			classification = "Strong"
		}

		scores = append(scores, TopicScore{
			TopicName:         topic.TagName,
			TotalSolved:       total,
			EstimatedEasy:     easy,
			EstimatedMedium:   medium,
			EstimatedHard:     hard,
			EstimatedAccuracy: accuracy,
			DifficultyScore:   difficultyScore,
			VolumeScore:       volumeScore,
			StrengthScore:     strength,
			Classification:    classification,
		})
	}

	return scores
}
