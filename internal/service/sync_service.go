package service

import (
	"context"
	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"leet_track_backend/pkg/logger"
	"leet_track_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// StatsFetcher 外部平台数据抓取能力，由 LeetCodeService 实现
type StatsFetcher interface {
	FetchAllStats(ctx context.Context, username string) FetchBundle
}

// SyncStore 同步流程需要的最小存储接口
type SyncStore interface {
	FindAllWithUsername() ([]model.Student, error)
	Save(student *model.Student) error
}

// SyncService 刷新编排：懒加载（读触发、冷却门控）与定时批量两条路径。
// 两条路径对同一学生并发执行是已接受的竞态（最后写入生效），
// 冷却窗口远大于单次抓取耗时，实际不会重叠。
type SyncService struct {
	store    SyncStore
	fetcher  StatsFetcher
	cooldown time.Duration
	now      func() time.Time
}

func NewSyncService(store SyncStore, fetcher StatsFetcher, cfg config.RefreshConfig) *SyncService {
	return &SyncService{
		store:    store,
		fetcher:  fetcher,
		cooldown: time.Duration(cfg.CooldownMinutes) * time.Minute,
		now:      time.Now,
	}
}

// RefreshIfStale 懒加载路径：冷却期过了才抓取。任何失败只记日志，
// 调用方永远拿到可用的快照（宁可旧数据也不报错）。
func (s *SyncService) RefreshIfStale(ctx context.Context, student *model.Student) {
	if student.LeetCodeUsername == "" {
		return
	}
	if s.now().Sub(student.LastUpdated) <= s.cooldown {
		return
	}

	if err := s.refreshOne(ctx, student, "lazy"); err != nil {
		logger.Log.Error("lazy refresh failed",
			zap.Uint("studentId", student.ID),
			zap.String("username", student.LeetCodeUsername),
			zap.Error(err))
	}
}

// RefreshAll 定时批量路径：严格串行逐个学生刷新，借此限制对外部平台的
// 请求速率；单个学生失败不会中断循环。
func (s *SyncService) RefreshAll(ctx context.Context) {
	students, err := s.store.FindAllWithUsername()
	if err != nil {
		logger.Log.Error("bulk refresh: list students failed", zap.Error(err))
		return
	}

	logger.Log.Info("bulk refresh started", zap.Int("students", len(students)))

	for i := range students {
		student := &students[i]
		if err := s.refreshOne(ctx, student, "scheduled"); err != nil {
			logger.Log.Error("bulk refresh: student failed",
				zap.Uint("studentId", student.ID),
				zap.String("username", student.LeetCodeUsername),
				zap.Error(err))
		}
	}

	logger.Log.Info("bulk refresh completed")
}

// refreshOne 一次完整的抓取合并周期。合并语义：
// 聚合统计抓到了才整体覆盖 stats/streak，否则原样保留；
// 最近提交非空才覆盖，否则原样保留；
// LastUpdated 总是推进（部分失败也推进冷却时钟，属于接受的陈旧性取舍）。
func (s *SyncService) refreshOne(ctx context.Context, student *model.Student, trigger string) error {
	bundle := s.fetcher.FetchAllStats(ctx, student.LeetCodeUsername)
	now := s.now()

	statsApplied := applyFetchBundle(student, bundle, now)
	if !statsApplied {
		logger.Log.Warn("stats sub-fetch unavailable, keeping previous snapshot fields",
			zap.String("username", student.LeetCodeUsername),
			zap.Error(bundle.Stats.Err))
	}

	student.LastUpdated = now

	monitoring.SyncCounter.WithLabelValues(trigger, syncResult(bundle)).Inc()

	return s.store.Save(student)
}

// applyFetchBundle 将抓取结果按合并语义写入快照，返回聚合统计是否被应用。
// 注册流程复用同一逻辑构建初始快照。
func applyFetchBundle(student *model.Student, bundle FetchBundle, now time.Time) bool {
	if bundle.StatsOK() {
		stats := bundle.Stats.Stats

		calendar := stats.SubmissionCalendar
		if calendar == nil {
			calendar = map[string]int{}
		}

		topics := []model.Topic{}
		if bundle.Topics.Err == nil {
			topics = bundle.Topics.Topics
		}

		currentStreak, maxStreak := CalculateStreaks(calendar, now)

		student.Stats = model.Stats{
			TotalSolved:        stats.TotalSolved,
			EasySolved:         stats.EasySolved,
			MediumSolved:       stats.MediumSolved,
			HardSolved:         stats.HardSolved,
			Ranking:            stats.Ranking,
			Reputation:         stats.Reputation,
			SubmissionCalendar: calendar,
			Topics:             topics,
		}
		student.Streak = model.Streak{
			CurrentStreak:  currentStreak,
			MaxStreak:      maxStreak,
			LastActiveDate: now,
		}
	}

	if bundle.Submissions.Err == nil && len(bundle.Submissions.Submissions) > 0 {
		student.RecentSubmissions = bundle.Submissions.Submissions
	}

	return bundle.StatsOK()
}

func syncResult(bundle FetchBundle) string {
	statsOK := bundle.StatsOK()
	subsOK := bundle.Submissions.Err == nil
	switch {
	case statsOK && subsOK:
		return "ok"
	case !statsOK && !subsOK:
		return "failed"
	default:
		return "partial"
	}
}
