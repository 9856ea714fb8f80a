package service

import (
	"sort"
	"strconv"
	"time"
)

const secondsPerDay = 86400

// CalculateStreaks 由提交日历推导连续刷题天数。纯函数，不做任何 I/O。
//
// 日历 key 为 unix 时间戳（字符串），同一天的多次提交只算一个活跃日。
// 间隔恰好 1 天才算延续；最近活跃日不是今天或昨天时 currentStreak 归零，
// maxStreak 不受影响。天粒度按 UTC 日历日计算。
func CalculateStreaks(calendar map[string]int, now time.Time) (currentStreak, maxStreak int) {
	if len(calendar) == 0 {
		return 0, 0
	}

	daySet := make(map[int64]struct{}, len(calendar))
	for key := range calendar {
		ts, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		daySet[ts/secondsPerDay] = struct{}{}
	}
	if len(daySet) == 0 {
		return 0, 0
	}

	days := make([]int64, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	tempStreak := 1
	maxStreak = 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			tempStreak++
		} else {
			tempStreak = 1
		}
		if tempStreak > maxStreak {
			maxStreak = tempStreak
		}
	}

	// 最近活跃日落在今天或昨天，连续纪录才算存活
	today := now.UTC().Unix() / secondsPerDay
	lastActive := days[len(days)-1]
	if lastActive == today || lastActive == today-1 {
		currentStreak = tempStreak
	}

	return currentStreak, maxStreak
}
