package service

import (
	"school_edu_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func attemptAt(completed time.Time, correct bool, durationSec int64) model.ExerciseAttempt {
	started := completed.Add(-time.Duration(durationSec) * time.Second)
	return model.ExerciseAttempt{
		StartedAt:   &started,
		CompletedAt: &completed,
		Correct:     correct,
	}
}

func TestCountAttempts(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC)

	attempts := []model.ExerciseAttempt{
		attemptAt(day1, true, 60),
		attemptAt(day1.Add(2*time.Hour), false, 120),
		attemptAt(day2, true, 300),
		{}, // 未完成的记录不计入
	}

	assert.Equal(t, 3, countAttempts(attempts, nil))

	// 截止到 day1 当天结束，day2 的记录被排除
	assert.Equal(t, 2, countAttempts(attempts, &day1))

	// 当天 23:59:59 仍属于当天
	lateNight := time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)
	attempts = append(attempts, attemptAt(lateNight, true, 30))
	assert.Equal(t, 3, countAttempts(attempts, &day1))
}

func TestCountCorrect(t *testing.T) {
	day := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	attempts := []model.ExerciseAttempt{
		attemptAt(day, true, 60),
		attemptAt(day, false, 60),
		attemptAt(day, true, 60),
	}
	assert.Equal(t, 2, countCorrect(attempts, nil))
}

func TestSumPracticeSeconds(t *testing.T) {
	day := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	attempts := []model.ExerciseAttempt{
		attemptAt(day, true, 60),
		attemptAt(day, false, 300),
	}
	assert.Equal(t, int64(360), sumPracticeSeconds(attempts, nil))

	// 缺时间戳的记录贡献 0
	completed := day.Add(time.Hour)
	attempts = append(attempts, model.ExerciseAttempt{CompletedAt: &completed})
	assert.Equal(t, int64(360), sumPracticeSeconds(attempts, nil))
}

func TestPracticeSecondsNegativeClamped(t *testing.T) {
	completed := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	started := completed.Add(time.Minute) // 开始晚于完成
	a := model.ExerciseAttempt{StartedAt: &started, CompletedAt: &completed}
	assert.Equal(t, int64(0), a.PracticeSeconds())
}

func TestStreakEndingAt(t *testing.T) {
	ref := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)

	dates := map[string]bool{
		"2026-03-05": true,
		"2026-03-04": true,
		"2026-03-03": true,
		// 03-02 缺席，更早的不再计入
		"2026-03-01": true,
	}
	assert.Equal(t, 3, streakEndingAt(dates, ref))
}

func TestStreakZeroWhenRefDayInactive(t *testing.T) {
	ref := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	dates := map[string]bool{
		"2026-03-04": true,
		"2026-03-03": true,
	}
	// 参考日当天无活动，连续天数归零
	assert.Equal(t, 0, streakEndingAt(dates, ref))
}

func TestActivityDates(t *testing.T) {
	day := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	attempts := []model.ExerciseAttempt{
		attemptAt(day, true, 60),
		attemptAt(day.Add(5*time.Hour), false, 60), // 同一天去重
		attemptAt(day.AddDate(0, 0, 1), true, 60),
		{}, // 未完成不产生活跃日
	}

	dates := activityDates(attempts)
	assert.Len(t, dates, 2)
	assert.True(t, dates["2026-03-02"])
	assert.True(t, dates["2026-03-03"])
}

func TestEndOfDay(t *testing.T) {
	assert.Nil(t, endOfDay(nil))

	d := time.Date(2026, 3, 2, 11, 22, 33, 0, time.UTC)
	end := endOfDay(&d)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, d.Day(), end.Day())
}
