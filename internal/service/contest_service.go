package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"leet_track_backend/pkg/cache"
	"leet_track_backend/pkg/logger"
	"net/http"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const contestsCacheKey = "contests:upcoming"

// codechef 日期形如 "12 Sep 2025 20:00:00"
const codechefTimeLayout = "02 Jan 2006 15:04:05"

type ContestService struct {
	cfg    config.ContestsConfig
	cache  cache.Store
	client *http.Client
	ttl    time.Duration
}

func NewContestService(cfg config.ContestsConfig, store cache.Store) *ContestService {
	return &ContestService{
		cfg:    cfg,
		cache:  store,
		client: &http.Client{},
		ttl:    time.Duration(cfg.CacheTTLMinutes) * time.Minute,
	}
}

// GetUpcomingContests 合并 Codeforces 和 CodeChef 的未开始比赛，按开赛时间升序。
// 上游故障时退化为空列表，从不向调用方报错；单个来源失败不影响另一个。
func (s *ContestService) GetUpcomingContests(ctx context.Context) []model.Contest {
	var contests []model.Contest
	_, err := s.cache.GetOrCompute(ctx, contestsCacheKey, s.ttl, &contests, func() (interface{}, error) {
		cf, cfErr := s.fetchCodeforces(ctx)
		cc, ccErr := s.fetchCodechef(ctx)

		if cfErr != nil {
			logger.Log.Warn("codeforces contest fetch failed", zap.Error(cfErr))
		}
		if ccErr != nil {
			logger.Log.Warn("codechef contest fetch failed", zap.Error(ccErr))
		}
		if cfErr != nil && ccErr != nil {
			// 两个来源都挂了就不要缓存空结果
			return nil, fmt.Errorf("all contest sources failed")
		}

		merged := append(cf, cc...)
		sort.Slice(merged, func(i, j int) bool {
			return merged[i].StartTime < merged[j].StartTime
		})
		return merged, nil
	})
	if err != nil {
		return []model.Contest{}
	}

	return contests
}

func (s *ContestService) fetchCodeforces(ctx context.Context) ([]model.Contest, error) {
	var data struct {
		Status string `json:"status"`
		Result []struct {
			ID               int    `json:"id"`
			Name             string `json:"name"`
			Phase            string `json:"phase"`
			StartTimeSeconds int64  `json:"startTimeSeconds"`
			DurationSeconds  int64  `json:"durationSeconds"`
		} `json:"result"`
	}

	if err := s.getJSON(ctx, s.cfg.CodeforcesURL, &data); err != nil {
		return nil, err
	}

	contests := make([]model.Contest, 0)
	for _, c := range data.Result {
		if c.Phase != "BEFORE" {
			continue
		}
		contests = append(contests, model.Contest{
			Name:            c.Name,
			Platform:        "Codeforces",
			StartTime:       c.StartTimeSeconds * 1000,
			DurationSeconds: c.DurationSeconds,
			Link:            fmt.Sprintf("https://codeforces.com/contest/%d", c.ID),
		})
	}
	return contests, nil
}

func (s *ContestService) fetchCodechef(ctx context.Context) ([]model.Contest, error) {
	var data struct {
		FutureContests []struct {
			ContestCode      string `json:"contest_code"`
			ContestName      string `json:"contest_name"`
			ContestStartDate string `json:"contest_start_date"`
			ContestDuration  string `json:"contest_duration"`
		} `json:"future_contests"`
	}

	if err := s.getJSON(ctx, s.cfg.CodechefURL, &data); err != nil {
		return nil, err
	}

	contests := make([]model.Contest, 0)
	for _, c := range data.FutureContests {
		start, err := time.Parse(codechefTimeLayout, c.ContestStartDate)
		if err != nil {
			continue
		}
		durationMinutes, _ := strconv.ParseInt(c.ContestDuration, 10, 64)
		contests = append(contests, model.Contest{
			Name:            c.ContestName,
			Platform:        "CodeChef",
			StartTime:       start.UnixMilli(),
			DurationSeconds: durationMinutes * 60,
			Link:            fmt.Sprintf("https://www.codechef.com/%s", c.ContestCode),
		})
	}
	return contests, nil
}

func (s *ContestService) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("contest API error (status %d)", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}
