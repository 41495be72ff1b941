package service

import (
	"errors"
	"fmt"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/pkg/logger"
	"school_edu_backend/pkg/mailer"
	"school_edu_backend/pkg/monitoring"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubjectStats 周报中按学科的分项统计
type SubjectStats struct {
	Subject         string  `json:"subject"`
	ProblemsSolved  int     `json:"problemsSolved"`
	Accuracy        float64 `json:"accuracy"`
	PracticeSeconds int64   `json:"practiceSeconds"`
}

// WeeklyReport 一个学生一周的学习摘要
type WeeklyReport struct {
	StudentID   uint      `json:"studentId"`
	StudentName string    `json:"studentName"`
	WeekStart   time.Time `json:"weekStart"`
	WeekEnd     time.Time `json:"weekEnd"`

	TotalAttempts        int     `json:"totalAttempts"`
	TotalCorrect         int     `json:"totalCorrect"`
	TotalPracticeSeconds int64   `json:"totalPracticeSeconds"`
	Accuracy             float64 `json:"accuracy"`
	Streak               int     `json:"streak"`

	HomeworkAssigned  int64 `json:"homeworkAssigned"`
	HomeworkCompleted int64 `json:"homeworkCompleted"`

	Subjects []SubjectStats `json:"subjects"`
}

// ReportBatchResult 周报批处理结果。没有监护人邮箱的学生计入 Skipped，
// 与真正的失败分开统计。
type ReportBatchResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ReportService 生成每周学习周报并发给监护人
type ReportService struct {
	AttemptRepo    *repository.AttemptRepository
	AssignmentRepo *repository.AssignmentRepository
	UserRepo       *repository.UserRepository
	Snapshots      *SnapshotService
	Mailer         mailer.Mailer
}

func NewReportService(
	attemptRepo *repository.AttemptRepository,
	assignmentRepo *repository.AssignmentRepository,
	userRepo *repository.UserRepository,
	snapshots *SnapshotService,
	m mailer.Mailer,
) *ReportService {
	return &ReportService{
		AttemptRepo:    attemptRepo,
		AssignmentRepo: assignmentRepo,
		UserRepo:       userRepo,
		Snapshots:      snapshots,
		Mailer:         m,
	}
}

// BuildWeeklyReport 汇总 [weekStart, weekEnd] 窗口内的练习和作业情况
func (s *ReportService) BuildWeeklyReport(studentID uint, weekStart, weekEnd time.Time) (*WeeklyReport, error) {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}

	// weekEnd 是日期，查询边界要覆盖到周日当天最后一刻
	cutoff := *endOfDay(&weekEnd)
	attempts, err := s.AttemptRepo.FindCompletedByStudentBetween(studentID, weekStart, cutoff)
	if err != nil {
		return nil, err
	}

	streak, err := s.Snapshots.WeekStreak(studentID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	assigned, completed, err := s.AssignmentRepo.CountVisibleToStudentCreatedBefore(studentID, cutoff)
	if err != nil {
		return nil, err
	}

	report := composeReport(attempts, weekStart, weekEnd)
	report.StudentID = student.ID
	report.StudentName = student.Name
	report.Streak = streak
	report.HomeworkAssigned = assigned
	report.HomeworkCompleted = completed
	return report, nil
}

// composeReport 纯聚合部分：总量、正确率、按学科分项（按解题数降序）
func composeReport(attempts []model.ExerciseAttempt, weekStart, weekEnd time.Time) *WeeklyReport {
	report := &WeeklyReport{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
	}

	type bucket struct {
		solved  int
		correct int
		seconds int64
	}
	buckets := make(map[string]*bucket)

	for i := range attempts {
		a := &attempts[i]
		report.TotalAttempts++
		if a.Correct {
			report.TotalCorrect++
		}
		report.TotalPracticeSeconds += a.PracticeSeconds()

		subject := a.Exercise.Subject
		if subject == "" {
			subject = "other"
		}
		b, ok := buckets[subject]
		if !ok {
			b = &bucket{}
			buckets[subject] = b
		}
		b.solved++
		if a.Correct {
			b.correct++
		}
		b.seconds += a.PracticeSeconds()
	}

	if report.TotalAttempts > 0 {
		report.Accuracy = float64(report.TotalCorrect) * 100 / float64(report.TotalAttempts)
	}

	for subject, b := range buckets {
		stats := SubjectStats{
			Subject:         subject,
			ProblemsSolved:  b.solved,
			PracticeSeconds: b.seconds,
		}
		if b.solved > 0 {
			stats.Accuracy = float64(b.correct) * 100 / float64(b.solved)
		}
		report.Subjects = append(report.Subjects, stats)
	}
	sort.Slice(report.Subjects, func(i, j int) bool {
		if report.Subjects[i].ProblemsSolved != report.Subjects[j].ProblemsSolved {
			return report.Subjects[i].ProblemsSolved > report.Subjects[j].ProblemsSolved
		}
		return report.Subjects[i].Subject < report.Subjects[j].Subject
	})

	return report
}

// SendWeeklyReports 给所有有监护人邮箱的学生发周报。
// 单个学生失败只记录，整批总是跑完。
func (s *ReportService) SendWeeklyReports(weekStart, weekEnd time.Time) (ReportBatchResult, error) {
	students, err := s.UserRepo.FindAllStudents()
	if err != nil {
		return ReportBatchResult{}, err
	}

	var result ReportBatchResult
	for _, student := range students {
		guardian, err := s.UserRepo.FindGuardian(&student)
		if err != nil {
			// 没关联监护人是正常情况算跳过，查库出错算失败
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Skipped++
			} else {
				result.Failed++
				logger.Log.Error("guardian lookup failed",
					zap.Uint("studentId", student.ID),
					zap.Error(err),
				)
			}
			continue
		}
		if guardian.Email == "" {
			result.Skipped++
			continue
		}

		report, err := s.BuildWeeklyReport(student.ID, weekStart, weekEnd)
		if err != nil {
			result.Failed++
			logger.Log.Error("weekly report build failed",
				zap.Uint("studentId", student.ID),
				zap.Error(err),
			)
			continue
		}

		msg := &mailer.Message{
			ToName:    guardian.Name,
			ToAddress: guardian.Email,
			Subject:   fmt.Sprintf("%s 的每周学习报告 (%s ~ %s)", student.Name, weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02")),
			TextBody:  renderReportText(report),
			HTMLBody:  renderReportHTML(report),
		}
		if err := s.Mailer.Send(msg); err != nil {
			result.Failed++
			logger.Log.Error("weekly report send failed",
				zap.Uint("studentId", student.ID),
				zap.String("to", guardian.Email),
				zap.Error(err),
			)
			continue
		}
		result.Sent++
		monitoring.ReportsSent.Inc()
	}

	logger.Log.Info("weekly report batch finished",
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func renderReportText(r *WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s 本周学习情况\n\n", r.StudentName)
	fmt.Fprintf(&b, "完成练习: %d 次，正确 %d 次（正确率 %.1f%%）\n", r.TotalAttempts, r.TotalCorrect, r.Accuracy)
	fmt.Fprintf(&b, "练习时长: %d 分钟\n", r.TotalPracticeSeconds/60)
	fmt.Fprintf(&b, "连续练习: %d 天\n", r.Streak)
	fmt.Fprintf(&b, "作业完成: %d / %d\n", r.HomeworkCompleted, r.HomeworkAssigned)
	if len(r.Subjects) > 0 {
		b.WriteString("\n各学科情况:\n")
		for _, sub := range r.Subjects {
			fmt.Fprintf(&b, "  %s: %d 题，正确率 %.1f%%，%d 分钟\n",
				sub.Subject, sub.ProblemsSolved, sub.Accuracy, sub.PracticeSeconds/60)
		}
	}
	return b.String()
}

func renderReportHTML(r *WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s 本周学习情况</h2>", r.StudentName)
	fmt.Fprintf(&b, "<p>完成练习 <b>%d</b> 次，正确 <b>%d</b> 次（正确率 %.1f%%）</p>", r.TotalAttempts, r.TotalCorrect, r.Accuracy)
	fmt.Fprintf(&b, "<p>练习时长 %d 分钟，连续练习 %d 天</p>", r.TotalPracticeSeconds/60, r.Streak)
	fmt.Fprintf(&b, "<p>作业完成 %d / %d</p>", r.HomeworkCompleted, r.HomeworkAssigned)
	if len(r.Subjects) > 0 {
		b.WriteString("<table border='1'><tr><th>学科</th><th>题数</th><th>正确率</th><th>时长</th></tr>")
		for _, sub := range r.Subjects {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%.1f%%</td><td>%d 分钟</td></tr>",
				sub.Subject, sub.ProblemsSolved, sub.Accuracy, sub.PracticeSeconds/60)
		}
		b.WriteString("</table>")
	}
	return b.String()
}

// LastWeekRange 返回 now 之前最近一个完整自然周（周一到周日）的起止日期
func LastWeekRange(now time.Time) (time.Time, time.Time) {
	today := model.DateOf(now)
	// 回退到本周一
	offset := (int(today.Weekday()) + 6) % 7
	thisMonday := today.AddDate(0, 0, -offset)
	weekStart := thisMonday.AddDate(0, 0, -7)
	weekEnd := thisMonday.AddDate(0, 0, -1)
	return weekStart, weekEnd
}
