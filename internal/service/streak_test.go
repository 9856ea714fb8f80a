package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dayKey(base time.Time, offsetDays int) string {
	return fmt.Sprintf("%d", base.AddDate(0, 0, offsetDays).Unix())
}

func TestCalculateStreaksEmptyCalendar(t *testing.T) {
	current, max := CalculateStreaks(nil, time.Now())
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, max)

	current, max = CalculateStreaks(map[string]int{}, time.Now())
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, max)
}

func TestCalculateStreaksConsecutiveRunEndingToday(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	calendar := map[string]int{}
	for i := 0; i < 5; i++ {
		calendar[dayKey(now, -i)] = 1
	}

	current, max := CalculateStreaks(calendar, now)
	assert.Equal(t, 5, current)
	assert.Equal(t, 5, max)
}

func TestCalculateStreaksGapBreaksRun(t *testing.T) {
	// day1 和 day2 连续，day3 缺失，day4 为今天
	day1 := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	now := day1.AddDate(0, 0, 3)

	calendar := map[string]int{
		dayKey(day1, 0): 3,
		dayKey(day1, 1): 1,
		dayKey(day1, 3): 2,
	}

	current, max := CalculateStreaks(calendar, now)
	assert.Equal(t, 2, max)
	assert.Equal(t, 1, current)
}

func TestCalculateStreaksStaleRunZeroesCurrentOnly(t *testing.T) {
	lastActive := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := lastActive.AddDate(0, 0, 3)

	calendar := map[string]int{
		dayKey(lastActive, -2): 1,
		dayKey(lastActive, -1): 1,
		dayKey(lastActive, 0):  1,
	}

	current, max := CalculateStreaks(calendar, now)
	assert.Equal(t, 0, current)
	assert.Equal(t, 3, max)
}

func TestCalculateStreaksYesterdayStillAlive(t *testing.T) {
	yesterday := time.Date(2025, 6, 9, 23, 0, 0, 0, time.UTC)
	now := yesterday.AddDate(0, 0, 1)

	calendar := map[string]int{
		dayKey(yesterday, -1): 1,
		dayKey(yesterday, 0):  1,
	}

	current, max := CalculateStreaks(calendar, now)
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, max)
}

func TestCalculateStreaksCollapsesSameDayEntries(t *testing.T) {
	now := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)
	morning := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 10, 19, 0, 0, 0, time.UTC)

	calendar := map[string]int{
		fmt.Sprintf("%d", morning.Unix()): 2,
		fmt.Sprintf("%d", evening.Unix()): 4,
	}

	current, max := CalculateStreaks(calendar, now)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, max)
}

func TestCalculateStreaksIgnoresMalformedKeys(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	calendar := map[string]int{
		"not-a-timestamp": 5,
		dayKey(now, 0):    1,
	}

	current, max := CalculateStreaks(calendar, now)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, max)

	_, max = CalculateStreaks(map[string]int{"garbage": 1}, now)
	assert.Equal(t, 0, max)
}

func TestCalculateStreaksIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	calendar := map[string]int{
		dayKey(now, 0):  1,
		dayKey(now, -1): 2,
		dayKey(now, -3): 1,
	}

	c1, m1 := CalculateStreaks(calendar, now)
	c2, m2 := CalculateStreaks(calendar, now)
	assert.Equal(t, c1, c2)
	assert.Equal(t, m1, m2)
}
