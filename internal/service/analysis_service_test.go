package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (g *fakeGenerator) Chat(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.reply, g.err
}

type fakeAnalysisStore struct {
	student *model.Student
	findErr error
	saveErr error
	saves   int
}

func (s *fakeAnalysisStore) FindByID(id uint) (*model.Student, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.student, nil
}

func (s *fakeAnalysisStore) Save(student *model.Student) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	return nil
}

const validAnalysisJSON = `{
	"weakTopics": ["DP (Score: 0.35)"],
	"strongTopics": ["Arrays (Score: 0.82)"],
	"improvementPlan": "Practice DP daily.",
	"suggestions": ["Solve 2 medium DP problems per day"],
	"summary": "Solid base, weak on DP."
}`

func newTestAnalysisService(store AnalysisStore, generator TextGenerator, now time.Time) *AnalysisService {
	svc := NewAnalysisService(store, generator, config.RefreshConfig{AnalysisWindowHours: 24})
	svc.now = func() time.Time { return now }
	return svc
}

func analysisStudent() *model.Student {
	return &model.Student{
		BaseModel: model.BaseModel{ID: 1},
		Stats: model.Stats{
			TotalSolved:  600,
			EasySolved:   300,
			MediumSolved: 200,
			HardSolved:   100,
			Topics:       []model.Topic{{TagName: "Arrays", Count: 60}},
		},
	}
}

func TestRequestAnalysisReturnsCachedWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	student := analysisStudent()
	student.AIProgressAnalysis = &model.ProgressAnalysis{
		Summary:        "previous",
		LastAnalyzedAt: now.Add(-time.Hour),
	}

	generator := &fakeGenerator{}
	store := &fakeAnalysisStore{student: student}
	svc := newTestAnalysisService(store, generator, now)

	result, err := svc.RequestAnalysis(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, result.Cached)
	assert.Equal(t, "previous", result.Analysis.Summary)
	assert.Zero(t, generator.calls)
	assert.Zero(t, store.saves)
}

func TestRequestAnalysisGeneratesPastWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	student := analysisStudent()
	student.AIProgressAnalysis = &model.ProgressAnalysis{
		Summary:        "previous",
		LastAnalyzedAt: now.Add(-25 * time.Hour),
	}

	generator := &fakeGenerator{reply: validAnalysisJSON}
	store := &fakeAnalysisStore{student: student}
	svc := newTestAnalysisService(store, generator, now)

	result, err := svc.RequestAnalysis(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, result.Cached)
	assert.Equal(t, 1, generator.calls)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{"DP (Score: 0.35)"}, result.Analysis.WeakTopics)
	assert.Equal(t, "Solid base, weak on DP.", result.Analysis.Summary)
	assert.Equal(t, now, result.Analysis.LastAnalyzedAt)
	assert.Equal(t, result.Analysis, student.AIProgressAnalysis)
}

func TestRequestAnalysisFirstTimeGenerates(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	generator := &fakeGenerator{reply: validAnalysisJSON}
	store := &fakeAnalysisStore{student: analysisStudent()}
	svc := newTestAnalysisService(store, generator, now)

	result, err := svc.RequestAnalysis(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 1, generator.calls)
}

func TestRequestAnalysisToleratesMarkdownFencing(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	generator := &fakeGenerator{reply: "Sure, here is the analysis:\n```json\n" + validAnalysisJSON + "\n```\nHope this helps!"}
	store := &fakeAnalysisStore{student: analysisStudent()}
	svc := newTestAnalysisService(store, generator, now)

	result, err := svc.RequestAnalysis(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arrays (Score: 0.82)"}, result.Analysis.StrongTopics)
}

func TestRequestAnalysisParseFailureLeavesStoredAnalysisUntouched(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	student := analysisStudent()
	previous := &model.ProgressAnalysis{
		Summary:        "previous",
		LastAnalyzedAt: now.Add(-48 * time.Hour),
	}
	student.AIProgressAnalysis = previous

	generator := &fakeGenerator{reply: "I could not produce structured output, sorry."}
	store := &fakeAnalysisStore{student: student}
	svc := newTestAnalysisService(store, generator, now)

	_, err := svc.RequestAnalysis(context.Background(), 1)
	assert.ErrorIs(t, err, util.ErrAnalysisParseFailed)

	// 解析失败不落任何数据，既有分析和时间戳保持原样
	assert.Zero(t, store.saves)
	assert.Equal(t, previous, student.AIProgressAnalysis)
}

func TestRequestAnalysisGenerationError(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("upstream timeout")}
	store := &fakeAnalysisStore{student: analysisStudent()}
	svc := newTestAnalysisService(store, generator, time.Now())

	_, err := svc.RequestAnalysis(context.Background(), 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrAnalysisParseFailed)
	assert.Zero(t, store.saves)
}

func TestRequestAnalysisUnknownStudent(t *testing.T) {
	store := &fakeAnalysisStore{findErr: errors.New("record not found")}
	svc := newTestAnalysisService(store, &fakeGenerator{}, time.Now())

	_, err := svc.RequestAnalysis(context.Background(), 42)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestParseAnalysisResponseDefaultsNilSlices(t *testing.T) {
	payload, err := parseAnalysisResponse(`{"summary": "ok"}`)
	require.NoError(t, err)
	assert.NotNil(t, payload.WeakTopics)
	assert.NotNil(t, payload.StrongTopics)
	assert.NotNil(t, payload.Suggestions)
	assert.Empty(t, payload.WeakTopics)
}

func TestParseAnalysisResponseExtractsBraceWindow(t *testing.T) {
	payload, err := parseAnalysisResponse("noise before {\"summary\": \"ok\"} noise after")
	require.NoError(t, err)
	assert.Equal(t, "ok", payload.Summary)
}
