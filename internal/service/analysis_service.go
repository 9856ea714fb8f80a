package service

import (
	"context"
	"encoding/json"
	"fmt"
	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/util"
	"leet_track_backend/pkg/logger"
	"leet_track_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TextGenerator 外部文本生成能力，由 AIService 实现
type TextGenerator interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// AnalysisStore 进度分析需要的最小存储接口
type AnalysisStore interface {
	FindByID(id uint) (*model.Student, error)
	Save(student *model.Student) error
}

// AnalysisService 生成学生的进度分析。24 小时限频的检查和写入集中在
// RequestAnalysis 一个函数内，之后若要加单写锁不需要动调用方。
type AnalysisService struct {
	store     AnalysisStore
	generator TextGenerator
	window    time.Duration
	now       func() time.Time
}

func NewAnalysisService(store AnalysisStore, generator TextGenerator, cfg config.RefreshConfig) *AnalysisService {
	return &AnalysisService{
		store:     store,
		generator: generator,
		window:    time.Duration(cfg.AnalysisWindowHours) * time.Hour,
		now:       time.Now,
	}
}

// AnalysisResult Cached 为 true 表示命中限频窗口内的既有分析，未调用生成服务
type AnalysisResult struct {
	Analysis *model.ProgressAnalysis `json:"analysis"`
	Cached   bool                    `json:"cached"`
}

// RequestAnalysis 在限频窗口外时重新评分并调用文本生成服务；
// 解析失败是本次请求的硬错误，既有分析原样保留（不写任何部分结果）。
func (s *AnalysisService) RequestAnalysis(ctx context.Context, studentID uint) (*AnalysisResult, error) {
	student, err := s.store.FindByID(studentID)
	if err != nil {
		return nil, util.ErrStudentNotFound
	}

	// 限频检查是先读后写的尽力而为，窗口内直接返回缓存结果
	if student.AIProgressAnalysis != nil {
		elapsed := s.now().Sub(student.AIProgressAnalysis.LastAnalyzedAt)
		if elapsed < s.window {
			monitoring.AnalysisCounter.WithLabelValues("cached").Inc()
			return &AnalysisResult{Analysis: student.AIProgressAnalysis, Cached: true}, nil
		}
	}

	tier := SelectScoringTier(student.Stats.TotalSolved)
	scores := ScoreTopics(student.Stats.Topics, student.Stats)

	prompt, err := buildAnalysisPrompt(scores, tier)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Chat(ctx, prompt)
	if err != nil {
		monitoring.AnalysisCounter.WithLabelValues("generation_error").Inc()
		return nil, fmt.Errorf("analysis generation: %w", err)
	}

	payload, err := parseAnalysisResponse(text)
	if err != nil {
		monitoring.AnalysisCounter.WithLabelValues("parse_error").Inc()
		logger.Log.Error("analysis response unparseable",
			zap.Uint("studentId", studentID),
			zap.Error(err))
		return nil, util.ErrAnalysisParseFailed
	}

	analysis := &model.ProgressAnalysis{
		WeakTopics:      payload.WeakTopics,
		StrongTopics:    payload.StrongTopics,
		ImprovementPlan: payload.ImprovementPlan,
		Suggestions:     payload.Suggestions,
		Summary:         payload.Summary,
		LastAnalyzedAt:  s.now(),
	}

	student.AIProgressAnalysis = analysis
	if err := s.store.Save(student); err != nil {
		return nil, err
	}

	monitoring.AnalysisCounter.WithLabelValues("generated").Inc()
	return &AnalysisResult{Analysis: analysis, Cached: false}, nil
}

type analysisPayload struct {
	WeakTopics      []string `json:"weakTopics"`
	StrongTopics    []string `json:"strongTopics"`
	ImprovementPlan string   `json:"improvementPlan"`
	Suggestions     []string `json:"suggestions"`
	Summary         string   `json:"summary"`
}

// parseAnalysisResponse 容忍 markdown 围栏和首尾多余文本：
// 先截取第一个 '{' 到最后一个 '}' 之间的子串再做结构化解析
func parseAnalysisResponse(text string) (*analysisPayload, error) {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	first := strings.Index(clean, "{")
	last := strings.LastIndex(clean, "}")
	if first != -1 && last != -1 && last > first {
		clean = clean[first : last+1]
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, err
	}

	if payload.WeakTopics == nil {
		payload.WeakTopics = []string{}
	}
	if payload.StrongTopics == nil {
		payload.StrongTopics = []string{}
	}
	if payload.Suggestions == nil {
		payload.Suggestions = []string{}
	}

	return &payload, nil
}

func buildAnalysisPrompt(scores []TopicScore, tier ScoringTier) (string, error) {
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are an expert DSA mentor and competitive programming coach.

WHERE THE DATA COMES FROM

The student's topic-wise performance is analyzed using both real and derived
data due to LeetCode API limitations.

1. Real data (directly from LeetCode): total problems solved per topic and the
   global Easy / Medium / Hard distribution across all solved problems.
2. Derived data (estimation): LeetCode does not provide a difficulty breakdown
   per topic, so the student's GLOBAL difficulty ratio is proportionally
   applied to each topic. This estimation is used only to infer relative topic
   strength, not exact statistics.

SCORING METHODOLOGY

For each topic the following metrics are calculated:

1. Estimated accuracy (capped at 90%%):
   ((Easy x 0.6) + (Medium x 1.0) + (Hard x 1.4)) / Total x 100
2. Normalized accuracy: estimatedAccuracy / 100
3. Difficulty score: (Medium + 2 x Hard) / Total
4. Volume score: min(Total / %.0f, 1)
5. Final topic strength score:
   (0.20 x normalizedAccuracy) + (0.35 x difficultyScore) + (0.45 x volumeScore)

Topic classification:
- Score > %.2f -> Strong topic
- Score <= %.2f -> Weak topic

INPUT DATA

Below is the computed topic-wise analysis:

%s

YOUR TASK

1. List STRONG topics. Format each entry as "Topic Name (Score: X.XX)".
2. List WEAK topics. Format each entry as "Topic Name (Score: X.XX)".
3. For each weak topic, suggest 2-3 concrete, actionable steps to improve.
4. Provide a short overall assessment (3-4 lines) describing the student's
   DSA preparedness and learning direction.

RULES

- Do NOT recalculate scores.
- Do NOT introduce new formulas.
- Do NOT mention AI or language models.
- Treat estimated values as relative indicators, not absolute truth.
- Use clear, student-friendly language; keep feedback practical and motivating.
- Output must be a valid JSON object with the following keys:
  weakTopics (array of strings, e.g. ["DP (Score: 0.35)"]),
  strongTopics (array of strings, e.g. ["Graphs (Score: 0.70)"]),
  improvementPlan (string, can contain newlines),
  suggestions (array of strings),
  summary (string)
- The improvementPlan should logically combine the suggestions for weak topics.
- Do not output markdown code blocks, just raw JSON.
`, tier.VolumeDivisor, tier.StrengthThreshold, tier.StrengthThreshold, string(data))

	return prompt, nil
}
