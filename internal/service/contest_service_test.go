package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"leet_track_backend/internal/config"
	"leet_track_backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const codeforcesBody = `{
	"status": "OK",
	"result": [
		{"id": 2001, "name": "Codeforces Round 999", "phase": "BEFORE", "startTimeSeconds": 1760000000, "durationSeconds": 7200},
		{"id": 1998, "name": "Finished Round", "phase": "FINISHED", "startTimeSeconds": 1700000000, "durationSeconds": 7200}
	]
}`

const codechefBody = `{
	"future_contests": [
		{"contest_code": "START150", "contest_name": "Starters 150", "contest_start_date": "15 Oct 2025 20:00:00", "contest_duration": "120"},
		{"contest_code": "BROKEN", "contest_name": "Bad Date", "contest_start_date": "not a date", "contest_duration": "120"}
	]
}`

type contestServer struct {
	*httptest.Server
	cfHits int
	ccHits int
	cfFail bool
	ccFail bool
}

func newContestServer() *contestServer {
	cs := &contestServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/cf", func(w http.ResponseWriter, r *http.Request) {
		cs.cfHits++
		if cs.cfFail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(codeforcesBody))
	})
	mux.HandleFunc("/cc", func(w http.ResponseWriter, r *http.Request) {
		cs.ccHits++
		if cs.ccFail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(codechefBody))
	})
	cs.Server = httptest.NewServer(mux)
	return cs
}

func newTestContestService(server *contestServer) *ContestService {
	cfg := config.ContestsConfig{
		CodeforcesURL:   server.URL + "/cf",
		CodechefURL:     server.URL + "/cc",
		CacheTTLMinutes: 60,
	}
	return NewContestService(cfg, cache.NewMemoryStore())
}

func TestGetUpcomingContestsMergesAndSorts(t *testing.T) {
	server := newContestServer()
	defer server.Close()

	svc := newTestContestService(server)
	contests := svc.GetUpcomingContests(context.Background())

	// 已结束的 CF 比赛和日期格式损坏的 CC 比赛都被过滤
	require.Len(t, contests, 2)

	// 按开赛时间升序：CodeChef 2025-10-15 在 CF 的 1760000000 (2025-10-09) 之后
	assert.Equal(t, "Codeforces Round 999", contests[0].Name)
	assert.Equal(t, "Codeforces", contests[0].Platform)
	assert.Equal(t, int64(1760000000000), contests[0].StartTime)
	assert.Equal(t, int64(7200), contests[0].DurationSeconds)
	assert.Equal(t, "https://codeforces.com/contest/2001", contests[0].Link)

	assert.Equal(t, "Starters 150", contests[1].Name)
	assert.Equal(t, "CodeChef", contests[1].Platform)
	assert.Equal(t, int64(120*60), contests[1].DurationSeconds)
	assert.Equal(t, "https://www.codechef.com/START150", contests[1].Link)
}

func TestGetUpcomingContestsCachesResult(t *testing.T) {
	server := newContestServer()
	defer server.Close()

	svc := newTestContestService(server)
	svc.GetUpcomingContests(context.Background())
	svc.GetUpcomingContests(context.Background())

	assert.Equal(t, 1, server.cfHits)
	assert.Equal(t, 1, server.ccHits)
}

func TestGetUpcomingContestsSingleSourceFailure(t *testing.T) {
	server := newContestServer()
	defer server.Close()
	server.cfFail = true

	svc := newTestContestService(server)
	contests := svc.GetUpcomingContests(context.Background())

	require.Len(t, contests, 1)
	assert.Equal(t, "CodeChef", contests[0].Platform)
}

func TestGetUpcomingContestsTotalFailureNotCached(t *testing.T) {
	server := newContestServer()
	defer server.Close()
	server.cfFail = true
	server.ccFail = true

	svc := newTestContestService(server)
	contests := svc.GetUpcomingContests(context.Background())
	assert.Empty(t, contests)

	// 全挂时不缓存空结果，恢复后下一次调用重新抓取
	server.cfFail = false
	server.ccFail = false
	contests = svc.GetUpcomingContests(context.Background())
	assert.Len(t, contests, 2)
}
