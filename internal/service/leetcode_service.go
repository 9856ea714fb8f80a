package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/util"
	"net/http"
	"sort"
	"sync"
)

// LeetCodeStats LeetCode 账号的聚合统计
type LeetCodeStats struct {
	TotalSolved        int            `json:"totalSolved"`
	EasySolved         int            `json:"easySolved"`
	MediumSolved       int            `json:"mediumSolved"`
	HardSolved         int            `json:"hardSolved"`
	Ranking            int            `json:"ranking"`
	Reputation         int            `json:"reputation"`
	SubmissionCalendar map[string]int `json:"submissionCalendar"`
}

// 三类子抓取各自带结果标记，"抓取失败"和"抓到空数据"不混在一起
type StatsResult struct {
	Stats *LeetCodeStats
	Err   error
}

type SubmissionsResult struct {
	Submissions []model.RecentSubmission
	Err         error
}

type TopicsResult struct {
	Topics []model.Topic
	Err    error
}

// FetchBundle 一次完整抓取的三部分结果，任何一部分失败不影响其余两部分
type FetchBundle struct {
	Stats       StatsResult
	Submissions SubmissionsResult
	Topics      TopicsResult
}

// StatsOK 聚合统计是否可用于合并
func (b FetchBundle) StatsOK() bool {
	return b.Stats.Err == nil && b.Stats.Stats != nil
}

type LeetCodeService struct {
	endpoint        string
	submissionLimit int
	client          *http.Client
}

func NewLeetCodeService(cfg config.LeetCodeConfig) *LeetCodeService {
	return &LeetCodeService{
		endpoint:        cfg.Endpoint,
		submissionLimit: cfg.SubmissionLimit,
		client:          &http.Client{},
	}
}

const profileStatsQuery = `
query userProfileStats($username: String!) {
    matchedUser(username: $username) {
        submitStats: submitStatsGlobal {
            acSubmissionNum {
                difficulty
                count
            }
        }
        profile {
            ranking
            reputation
        }
        submissionCalendar
    }
}
`

const recentSubmissionsQuery = `
query recentSubmissions($username: String!, $limit: Int) {
    recentSubmissionList(username: $username, limit: $limit) {
        title
        titleSlug
        timestamp
        statusDisplay
        lang
    }
}
`

const topicStatsQuery = `
query skillStats($username: String!) {
  matchedUser(username: $username) {
    tagProblemCounts {
      advanced {
        tagName
        tagSlug
        problemsSolved
      }
      intermediate {
        tagName
        tagSlug
        problemsSolved
      }
      fundamental {
        tagName
        tagSlug
        problemsSolved
      }
    }
  }
}
`

// FetchAllStats 并发执行三个子抓取，互不阻塞、互不拖垮
func (s *LeetCodeService) FetchAllStats(ctx context.Context, username string) FetchBundle {
	var bundle FetchBundle
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		bundle.Stats = s.fetchProfileStats(ctx, username)
	}()
	go func() {
		defer wg.Done()
		bundle.Submissions = s.fetchRecentSubmissions(ctx, username)
	}()
	go func() {
		defer wg.Done()
		bundle.Topics = s.fetchTopicStats(ctx, username)
	}()

	wg.Wait()
	return bundle
}

func (s *LeetCodeService) fetchProfileStats(ctx context.Context, username string) StatsResult {
	var data struct {
		MatchedUser *struct {
			SubmitStats struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
			Profile struct {
				Ranking    int `json:"ranking"`
				Reputation int `json:"reputation"`
			} `json:"profile"`
			SubmissionCalendar string `json:"submissionCalendar"`
		} `json:"matchedUser"`
	}

	if err := s.query(ctx, profileStatsQuery, map[string]interface{}{"username": username}, &data); err != nil {
		return StatsResult{Err: err}
	}

	if data.MatchedUser == nil {
		return StatsResult{Err: util.ErrLeetCodeUserNotFound}
	}

	stats := &LeetCodeStats{
		Ranking:            data.MatchedUser.Profile.Ranking,
		Reputation:         data.MatchedUser.Profile.Reputation,
		SubmissionCalendar: map[string]int{},
	}

	// 未出现的难度桶保持 0
	for _, item := range data.MatchedUser.SubmitStats.ACSubmissionNum {
		switch item.Difficulty {
		case "All":
			stats.TotalSolved = item.Count
		case "Easy":
			stats.EasySolved = item.Count
		case "Medium":
			stats.MediumSolved = item.Count
		case "Hard":
			stats.HardSolved = item.Count
		}
	}

	// submissionCalendar 是内嵌的 JSON 字符串
	if data.MatchedUser.SubmissionCalendar != "" {
		if err := json.Unmarshal([]byte(data.MatchedUser.SubmissionCalendar), &stats.SubmissionCalendar); err != nil {
			return StatsResult{Err: fmt.Errorf("parse submission calendar: %w", err)}
		}
	}

	return StatsResult{Stats: stats}
}

func (s *LeetCodeService) fetchRecentSubmissions(ctx context.Context, username string) SubmissionsResult {
	var data struct {
		RecentSubmissionList []struct {
			Title         string `json:"title"`
			TitleSlug     string `json:"titleSlug"`
			Timestamp     string `json:"timestamp"`
			StatusDisplay string `json:"statusDisplay"`
			Lang          string `json:"lang"`
		} `json:"recentSubmissionList"`
	}

	variables := map[string]interface{}{
		"username": username,
		"limit":    s.submissionLimit,
	}
	if err := s.query(ctx, recentSubmissionsQuery, variables, &data); err != nil {
		return SubmissionsResult{Err: err}
	}

	submissions := make([]model.RecentSubmission, 0, len(data.RecentSubmissionList))
	for _, sub := range data.RecentSubmissionList {
		submissions = append(submissions, model.RecentSubmission{
			Title:     sub.Title,
			TitleSlug: sub.TitleSlug,
			Timestamp: sub.Timestamp,
			Status:    sub.StatusDisplay,
			Lang:      sub.Lang,
		})
	}

	return SubmissionsResult{Submissions: submissions}
}

func (s *LeetCodeService) fetchTopicStats(ctx context.Context, username string) TopicsResult {
	type tagCount struct {
		TagName        string `json:"tagName"`
		TagSlug        string `json:"tagSlug"`
		ProblemsSolved int    `json:"problemsSolved"`
	}
	var data struct {
		MatchedUser *struct {
			TagProblemCounts struct {
				Advanced     []tagCount `json:"advanced"`
				Intermediate []tagCount `json:"intermediate"`
				Fundamental  []tagCount `json:"fundamental"`
			} `json:"tagProblemCounts"`
		} `json:"matchedUser"`
	}

	if err := s.query(ctx, topicStatsQuery, map[string]interface{}{"username": username}, &data); err != nil {
		return TopicsResult{Err: err}
	}

	if data.MatchedUser == nil {
		return TopicsResult{Err: util.ErrLeetCodeUserNotFound}
	}

	counts := data.MatchedUser.TagProblemCounts

	// 三个难度层级的标签合并成一个序列
	all := make([]tagCount, 0, len(counts.Advanced)+len(counts.Intermediate)+len(counts.Fundamental))
	all = append(all, counts.Advanced...)
	all = append(all, counts.Intermediate...)
	all = append(all, counts.Fundamental...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ProblemsSolved > all[j].ProblemsSolved
	})

	topics := make([]model.Topic, 0, len(all))
	for _, t := range all {
		topics = append(topics, model.Topic{
			TagName: t.TagName,
			TagSlug: t.TagSlug,
			Count:   t.ProblemsSolved,
		})
	}

	return TopicsResult{Topics: topics}
}

// query 发送一个 GraphQL 请求并将 data 部分解码到 out
func (s *LeetCodeService) query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

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
		return fmt.Errorf("leetcode API error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("leetcode graphql error: %s", envelope.Errors[0].Message)
	}

	return json.Unmarshal(envelope.Data, out)
}
