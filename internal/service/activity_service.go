package service

import (
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"time"
)

// ActivityMetrics 某学生截至某天的累计活动指标
type ActivityMetrics struct {
	TotalAttempts        int   `json:"totalAttempts"`
	TotalCorrect         int   `json:"totalCorrect"`
	TotalPracticeSeconds int64 `json:"totalPracticeSeconds"`
	CurrentStreak        int   `json:"currentStreak"`
}

// ActivityService 从练习记录流计算每日/累计统计。只读，不落库。
type ActivityService struct {
	AttemptRepo *repository.AttemptRepository
}

func NewActivityService(attemptRepo *repository.AttemptRepository) *ActivityService {
	return &ActivityService{AttemptRepo: attemptRepo}
}

// TotalAttempts 截至 date 当天结束完成的练习次数，date 为 nil 时统计全部
func (s *ActivityService) TotalAttempts(studentID uint, date *time.Time) (int, error) {
	attempts, err := s.AttemptRepo.FindCompletedByStudent(studentID)
	if err != nil {
		return 0, err
	}
	return countAttempts(attempts, date), nil
}

func (s *ActivityService) TotalCorrect(studentID uint, date *time.Time) (int, error) {
	attempts, err := s.AttemptRepo.FindCompletedByStudent(studentID)
	if err != nil {
		return 0, err
	}
	return countCorrect(attempts, date), nil
}

func (s *ActivityService) TotalPracticeSeconds(studentID uint, date *time.Time) (int64, error) {
	attempts, err := s.AttemptRepo.FindCompletedByStudent(studentID)
	if err != nil {
		return 0, err
	}
	return sumPracticeSeconds(attempts, date), nil
}

// CurrentStreak 以 date 为终点的连续活跃天数，date 为 nil 时以今天为终点。
// date 当天没有任何完成记录时返回 0。
func (s *ActivityService) CurrentStreak(studentID uint, date *time.Time) (int, error) {
	attempts, err := s.AttemptRepo.FindCompletedByStudent(studentID)
	if err != nil {
		return 0, err
	}
	ref := time.Now()
	if date != nil {
		ref = *date
	}
	return streakEndingAt(activityDates(attempts), ref), nil
}

// MetricsFor 快照和成就检查共用的一次性聚合，避免四次重复拉取记录
func (s *ActivityService) MetricsFor(studentID uint, date time.Time) (ActivityMetrics, error) {
	attempts, err := s.AttemptRepo.FindCompletedByStudent(studentID)
	if err != nil {
		return ActivityMetrics{}, err
	}
	return ActivityMetrics{
		TotalAttempts:        countAttempts(attempts, &date),
		TotalCorrect:         countCorrect(attempts, &date),
		TotalPracticeSeconds: sumPracticeSeconds(attempts, &date),
		CurrentStreak:        streakEndingAt(activityDates(attempts), date),
	}, nil
}

// endOfDay date 当天的最后一纳秒，nil 表示不过滤
func endOfDay(date *time.Time) *time.Time {
	if date == nil {
		return nil
	}
	end := model.DateOf(*date).Add(24*time.Hour - time.Nanosecond)
	return &end
}

func withinCutoff(a *model.ExerciseAttempt, cutoff *time.Time) bool {
	if a.CompletedAt == nil {
		return false
	}
	if cutoff == nil {
		return true
	}
	return !a.CompletedAt.After(*cutoff)
}

func countAttempts(attempts []model.ExerciseAttempt, date *time.Time) int {
	cutoff := endOfDay(date)
	total := 0
	for i := range attempts {
		if withinCutoff(&attempts[i], cutoff) {
			total++
		}
	}
	return total
}

func countCorrect(attempts []model.ExerciseAttempt, date *time.Time) int {
	cutoff := endOfDay(date)
	total := 0
	for i := range attempts {
		if withinCutoff(&attempts[i], cutoff) && attempts[i].Correct {
			total++
		}
	}
	return total
}

func sumPracticeSeconds(attempts []model.ExerciseAttempt, date *time.Time) int64 {
	cutoff := endOfDay(date)
	var total int64
	for i := range attempts {
		if withinCutoff(&attempts[i], cutoff) {
			total += attempts[i].PracticeSeconds()
		}
	}
	return total
}

// activityDates 有完成记录的日历日集合
func activityDates(attempts []model.ExerciseAttempt) map[string]bool {
	dates := make(map[string]bool)
	for i := range attempts {
		if attempts[i].CompletedAt != nil {
			dates[attempts[i].CompletedAt.Format("2006-01-02")] = true
		}
	}
	return dates
}

// streakEndingAt 从 ref 所在日历日往前数连续活跃天数
func streakEndingAt(dates map[string]bool, ref time.Time) int {
	day := model.DateOf(ref)
	streak := 0
	for dates[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
