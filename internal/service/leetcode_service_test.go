package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileStatsBody = `{
	"data": {
		"matchedUser": {
			"submitStats": {
				"acSubmissionNum": [
					{"difficulty": "All", "count": 600},
					{"difficulty": "Easy", "count": 300},
					{"difficulty": "Medium", "count": 200},
					{"difficulty": "Hard", "count": 100}
				]
			},
			"profile": {"ranking": 54321, "reputation": 12},
			"submissionCalendar": "{\"1717977600\": 3, \"1718064000\": 1}"
		}
	}
}`

const recentSubmissionsBody = `{
	"data": {
		"recentSubmissionList": [
			{"title": "Two Sum", "titleSlug": "two-sum", "timestamp": "1718064000", "statusDisplay": "Accepted", "lang": "golang"},
			{"title": "LRU Cache", "titleSlug": "lru-cache", "timestamp": "1717977600", "statusDisplay": "Wrong Answer", "lang": "python3"}
		]
	}
}`

const topicStatsBody = `{
	"data": {
		"matchedUser": {
			"tagProblemCounts": {
				"advanced": [{"tagName": "Dynamic Programming", "tagSlug": "dynamic-programming", "problemsSolved": 40}],
				"intermediate": [{"tagName": "Hash Table", "tagSlug": "hash-table", "problemsSolved": 55}],
				"fundamental": [{"tagName": "Array", "tagSlug": "array", "problemsSolved": 90}]
			}
		}
	}
}`

// graphQLHandler 按查询内容分发三类子抓取的响应
func graphQLHandler(profile, submissions, topics string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(req.Query, "submitStats"):
			w.Write([]byte(profile))
		case strings.Contains(req.Query, "recentSubmissionList"):
			w.Write([]byte(submissions))
		case strings.Contains(req.Query, "tagProblemCounts"):
			w.Write([]byte(topics))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func newTestLeetCodeService(url string) *LeetCodeService {
	return NewLeetCodeService(config.LeetCodeConfig{Endpoint: url, SubmissionLimit: 10})
}

func TestFetchAllStatsHappyPath(t *testing.T) {
	server := httptest.NewServer(graphQLHandler(profileStatsBody, recentSubmissionsBody, topicStatsBody))
	defer server.Close()

	svc := newTestLeetCodeService(server.URL)
	bundle := svc.FetchAllStats(context.Background(), "alice")

	require.True(t, bundle.StatsOK())
	stats := bundle.Stats.Stats
	assert.Equal(t, 600, stats.TotalSolved)
	assert.Equal(t, 300, stats.EasySolved)
	assert.Equal(t, 200, stats.MediumSolved)
	assert.Equal(t, 100, stats.HardSolved)
	assert.Equal(t, 54321, stats.Ranking)
	assert.Equal(t, 12, stats.Reputation)

	// 日历是内嵌在响应里的 JSON 字符串，必须二次解析
	assert.Equal(t, map[string]int{"1717977600": 3, "1718064000": 1}, stats.SubmissionCalendar)

	require.NoError(t, bundle.Submissions.Err)
	require.Len(t, bundle.Submissions.Submissions, 2)
	assert.Equal(t, model.RecentSubmission{
		Title: "Two Sum", TitleSlug: "two-sum", Timestamp: "1718064000", Status: "Accepted", Lang: "golang",
	}, bundle.Submissions.Submissions[0])

	// 三个层级的标签合并后按解题数降序
	require.NoError(t, bundle.Topics.Err)
	require.Len(t, bundle.Topics.Topics, 3)
	assert.Equal(t, "Array", bundle.Topics.Topics[0].TagName)
	assert.Equal(t, "Hash Table", bundle.Topics.Topics[1].TagName)
	assert.Equal(t, "Dynamic Programming", bundle.Topics.Topics[2].TagName)
}

func TestFetchProfileStatsUnknownUser(t *testing.T) {
	nullUser := `{"data": {"matchedUser": null}}`
	server := httptest.NewServer(graphQLHandler(nullUser, recentSubmissionsBody, nullUser))
	defer server.Close()

	svc := newTestLeetCodeService(server.URL)
	bundle := svc.FetchAllStats(context.Background(), "ghost")

	assert.False(t, bundle.StatsOK())
	assert.ErrorIs(t, bundle.Stats.Err, util.ErrLeetCodeUserNotFound)
	assert.ErrorIs(t, bundle.Topics.Err, util.ErrLeetCodeUserNotFound)
	// 提交列表接口不依赖 matchedUser，单独成功
	assert.NoError(t, bundle.Submissions.Err)
}

func TestFetchAllStatsPartialFailure(t *testing.T) {
	gqlError := `{"errors": [{"message": "rate limited"}]}`
	server := httptest.NewServer(graphQLHandler(gqlError, recentSubmissionsBody, topicStatsBody))
	defer server.Close()

	svc := newTestLeetCodeService(server.URL)
	bundle := svc.FetchAllStats(context.Background(), "alice")

	assert.False(t, bundle.StatsOK())
	assert.ErrorContains(t, bundle.Stats.Err, "rate limited")
	assert.NoError(t, bundle.Submissions.Err)
	assert.NoError(t, bundle.Topics.Err)
}

func TestFetchAllStatsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestLeetCodeService(server.URL)
	bundle := svc.FetchAllStats(context.Background(), "alice")

	assert.Error(t, bundle.Stats.Err)
	assert.Error(t, bundle.Submissions.Err)
	assert.Error(t, bundle.Topics.Err)
}

func TestFetchProfileStatsMissingBucketsStayZero(t *testing.T) {
	sparse := `{
		"data": {
			"matchedUser": {
				"submitStats": {"acSubmissionNum": [{"difficulty": "All", "count": 5}, {"difficulty": "Easy", "count": 5}]},
				"profile": {"ranking": 1, "reputation": 0},
				"submissionCalendar": ""
			}
		}
	}`
	server := httptest.NewServer(graphQLHandler(sparse, recentSubmissionsBody, topicStatsBody))
	defer server.Close()

	svc := newTestLeetCodeService(server.URL)
	bundle := svc.FetchAllStats(context.Background(), "newbie")

	require.True(t, bundle.StatsOK())
	assert.Equal(t, 5, bundle.Stats.Stats.TotalSolved)
	assert.Equal(t, 5, bundle.Stats.Stats.EasySolved)
	assert.Zero(t, bundle.Stats.Stats.MediumSolved)
	assert.Zero(t, bundle.Stats.Stats.HardSolved)
	assert.Empty(t, bundle.Stats.Stats.SubmissionCalendar)
}
