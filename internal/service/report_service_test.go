package service

import (
	"errors"
	"testing"
	"time"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func subjectAttempt(subject string, correct bool, durationSec int64) model.ExerciseAttempt {
	completed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	started := completed.Add(-time.Duration(durationSec) * time.Second)
	return model.ExerciseAttempt{
		StartedAt:   &started,
		CompletedAt: &completed,
		Correct:     correct,
		Exercise:    model.Exercise{Subject: subject},
	}
}

func TestComposeReportTotals(t *testing.T) {
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 6)

	attempts := []model.ExerciseAttempt{
		subjectAttempt("math", true, 120),
		subjectAttempt("math", false, 180),
		subjectAttempt("english", true, 60),
		subjectAttempt("english", true, 60),
	}

	report := composeReport(attempts, weekStart, weekEnd)

	assert.Equal(t, 4, report.TotalAttempts)
	assert.Equal(t, 3, report.TotalCorrect)
	assert.Equal(t, int64(420), report.TotalPracticeSeconds)
	assert.InDelta(t, 75.0, report.Accuracy, 0.001)
	assert.Equal(t, weekStart, report.WeekStart)
	assert.Equal(t, weekEnd, report.WeekEnd)
}

func TestComposeReportSubjectBreakdown(t *testing.T) {
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 6)

	attempts := []model.ExerciseAttempt{
		subjectAttempt("math", true, 100),
		subjectAttempt("math", true, 100),
		subjectAttempt("math", false, 100),
		subjectAttempt("english", true, 50),
		subjectAttempt("", false, 30), // 无学科归入 other
	}

	report := composeReport(attempts, weekStart, weekEnd)
	assert.Len(t, report.Subjects, 3)

	// 按解题数降序，相同时按学科名升序
	assert.Equal(t, "math", report.Subjects[0].Subject)
	assert.Equal(t, 3, report.Subjects[0].ProblemsSolved)
	assert.Equal(t, "english", report.Subjects[1].Subject)
	assert.Equal(t, "other", report.Subjects[2].Subject)

	assert.InDelta(t, 66.666, report.Subjects[0].Accuracy, 0.01)
	assert.Equal(t, int64(300), report.Subjects[0].PracticeSeconds)
}

func TestComposeReportEmptyWeek(t *testing.T) {
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	report := composeReport(nil, weekStart, weekStart.AddDate(0, 0, 6))

	assert.Equal(t, 0, report.TotalAttempts)
	assert.Equal(t, float64(0), report.Accuracy)
	assert.Empty(t, report.Subjects)
}

func TestLastWeekRange(t *testing.T) {
	// 2026-08-26 是周三，上一个完整自然周为 08-17(一) 到 08-23(日)
	wednesday := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	start, end := LastWeekRange(wednesday)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), end)

	// 周一当天也取上一周
	monday := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	start, end = LastWeekRange(monday)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), end)

	// 周日属于尚未结束的一周
	sunday := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	start, end = LastWeekRange(sunday)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), end)
}

type captureMailer struct {
	sent []*mailer.Message
	fail string // 发往该地址时返回错误
}

func (m *captureMailer) Send(msg *mailer.Message) error {
	if m.fail != "" && msg.ToAddress == m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newReportService(db *gorm.DB, m mailer.Mailer) *ReportService {
	attemptRepo := repository.NewAttemptRepository(db)
	return NewReportService(
		attemptRepo,
		repository.NewAssignmentRepository(db),
		repository.NewUserRepository(db),
		NewSnapshotService(repository.NewSnapshotRepository(db), repository.NewUserRepository(db), NewActivityService(attemptRepo)),
		m,
	)
}

func TestWeeklyReportIncludesSunday(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db, &captureMailer{})
	student := seedStudent(t, db, "zhangsan")

	exercise := &model.Exercise{Title: "分数加减", Subject: "math", TeacherID: 1}
	require.NoError(t, db.Create(exercise).Error)

	weekStart, weekEnd := LastWeekRange(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))

	// 周日中午完成的记录属于本周，下周一的不属于
	seedCompletedAttempt(t, db, student.ID, exercise.ID, time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC), true, 300)
	seedCompletedAttempt(t, db, student.ID, exercise.ID, time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC), true, 300)

	report, err := svc.BuildWeeklyReport(student.ID, weekStart, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalAttempts)
	assert.Equal(t, 1, report.TotalCorrect)
	require.Len(t, report.Subjects, 1)
	assert.Equal(t, "math", report.Subjects[0].Subject)
	assert.Equal(t, 1, report.Subjects[0].ProblemsSolved)
}

func TestSendWeeklyReportsSkipsVsFails(t *testing.T) {
	db := newTestDB(t)
	m := &captureMailer{fail: "down@example.com"}
	svc := newReportService(db, m)

	// 没关联监护人：跳过
	seedStudent(t, db, "orphan")

	// 监护人有邮箱：正常发送
	okGuardian := &model.User{Name: "wangma", Email: "wangma@example.com", Password: "hashed", Role: model.Guardian}
	require.NoError(t, db.Create(okGuardian).Error)
	okStudent := seedStudent(t, db, "zhangsan")
	okStudent.GuardianID = &okGuardian.ID
	require.NoError(t, db.Save(okStudent).Error)

	// 邮件网关故障：算失败
	badGuardian := &model.User{Name: "liba", Email: "down@example.com", Password: "hashed", Role: model.Guardian}
	require.NoError(t, db.Create(badGuardian).Error)
	badStudent := seedStudent(t, db, "lisi")
	badStudent.GuardianID = &badGuardian.ID
	require.NoError(t, db.Save(badStudent).Error)

	weekStart, weekEnd := LastWeekRange(time.Now())
	result, err := svc.SendWeeklyReports(weekStart, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, m.sent, 1)
	assert.Equal(t, "wangma@example.com", m.sent[0].ToAddress)
}
