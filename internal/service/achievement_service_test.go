package service

import (
	"school_edu_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func criteriaOf(t *testing.T, raw string) model.AchievementCriteria {
	t.Helper()
	a := model.Achievement{Criteria: raw}
	c, err := a.ParseCriteria()
	assert.NoError(t, err)
	return c
}

func TestCriteriaMetSingleThreshold(t *testing.T) {
	c := criteriaOf(t, `{"totalAttempts": 100}`)

	assert.False(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 99}))
	assert.True(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 100}))
	assert.True(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 150}))
}

func TestCriteriaMetAllKeysMustPass(t *testing.T) {
	c := criteriaOf(t, `{"totalAttempts": 50, "currentStreak": 7}`)

	assert.False(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 100, CurrentStreak: 6}))
	assert.False(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 49, CurrentStreak: 10}))
	assert.True(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 50, CurrentStreak: 7}))
}

func TestCriteriaMetMinAccuracy(t *testing.T) {
	c := criteriaOf(t, `{"minAccuracy": 90}`)

	// 零次练习时正确率无法定义，直接不满足
	assert.False(t, CriteriaMet(c, ActivityMetrics{}))

	assert.False(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 10, TotalCorrect: 8}))
	assert.True(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 10, TotalCorrect: 9}))
	assert.True(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 10, TotalCorrect: 10}))
}

func TestCriteriaMetPracticeSecondsAndStreak(t *testing.T) {
	c := criteriaOf(t, `{"totalPracticeSeconds": 36000}`)
	assert.False(t, CriteriaMet(c, ActivityMetrics{TotalPracticeSeconds: 35999}))
	assert.True(t, CriteriaMet(c, ActivityMetrics{TotalPracticeSeconds: 36000}))
}

func TestCriteriaEmptyNeverMet(t *testing.T) {
	c := criteriaOf(t, `{}`)
	assert.True(t, c.Empty())
	assert.False(t, CriteriaMet(c, ActivityMetrics{
		TotalAttempts:        1000,
		TotalCorrect:         1000,
		TotalPracticeSeconds: 100000,
		CurrentStreak:        365,
	}))
}

func TestCriteriaUnknownKeysIgnored(t *testing.T) {
	// 未知键不构成约束，但没有任何已知键时等同于空条件
	c := criteriaOf(t, `{"somethingElse": 5}`)
	assert.True(t, c.Empty())
	assert.False(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 10}))

	c = criteriaOf(t, `{"somethingElse": 5, "totalAttempts": 3}`)
	assert.False(t, c.Empty())
	assert.True(t, CriteriaMet(c, ActivityMetrics{TotalAttempts: 3}))
}

func TestParseCriteriaInvalidJSON(t *testing.T) {
	a := model.Achievement{Criteria: `{not json`}
	_, err := a.ParseCriteria()
	assert.Error(t, err)
}
