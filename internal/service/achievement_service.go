package service

import (
	"context"
	"encoding/json"
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AchievementService 按快照指标评估成就条件并授予
type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	SnapshotRepo    *repository.SnapshotRepository
	Redis           *redis.Client
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	snapshotRepo *repository.SnapshotRepository,
	rdb *redis.Client,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		SnapshotRepo:    snapshotRepo,
		Redis:           rdb,
	}
}

const (
	leaderboardCacheKey = "achievements:leaderboard"
	leaderboardCacheMax = 50
)

type AchievementRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Criteria    string `json:"criteria" binding:"required"`
}

// CheckAndAwardAchievements 用当天快照指标评估学生尚未获得的全部成就，
// 满足条件的逐个授予。条件解析失败视为未满足，只记录不抛出。
// 返回本次新授予的成就。
func (s *AchievementService) CheckAndAwardAchievements(studentID uint) ([]model.Achievement, error) {
	unearned, err := s.AchievementRepo.FindUnearnedByStudent(studentID)
	if err != nil {
		return nil, err
	}
	if len(unearned) == 0 {
		return nil, nil
	}

	metrics := s.snapshotMetrics(studentID)

	var awarded []model.Achievement
	for _, achievement := range unearned {
		criteria, err := achievement.ParseCriteria()
		if err != nil {
			logger.Log.Error("achievement criteria parse failed",
				zap.Uint("achievementId", achievement.ID),
				zap.String("name", achievement.Name),
				zap.Error(err),
			)
			continue
		}
		if !CriteriaMet(criteria, metrics) {
			continue
		}
		if err := s.AchievementRepo.Award(studentID, achievement.ID); err != nil {
			// 两个并发检查可能同时判满足，唯一约束兜底，不算失败
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			logger.Log.Error("achievement award failed",
				zap.Uint("studentId", studentID),
				zap.Uint("achievementId", achievement.ID),
				zap.Error(err),
			)
			continue
		}
		awarded = append(awarded, achievement)
	}
	if len(awarded) > 0 && s.Redis != nil {
		// 新获成就会改变排行榜，直接作废缓存
		if err := s.Redis.Del(context.Background(), leaderboardCacheKey).Err(); err != nil {
			logger.Log.Warn("leaderboard cache invalidate failed", zap.Error(err))
		}
	}
	return awarded, nil
}

// snapshotMetrics 今天的快照指标，缺失字段一律按 0 处理
func (s *AchievementService) snapshotMetrics(studentID uint) ActivityMetrics {
	snapshot, err := s.SnapshotRepo.FindByStudentAndDate(studentID, time.Now())
	if err != nil {
		return ActivityMetrics{}
	}
	return ActivityMetrics{
		TotalAttempts:        snapshot.TotalAttempts,
		TotalCorrect:         snapshot.TotalCorrect,
		TotalPracticeSeconds: snapshot.TotalPracticeSeconds,
		CurrentStreak:        snapshot.CurrentStreak,
	}
}

// CriteriaMet 出现的键全部达标才算满足；没有任何可识别键的条件永远不满足。
// minAccuracy 按 正确数/总数*100 计算，总数为 0 时直接不满足。
func CriteriaMet(c model.AchievementCriteria, m ActivityMetrics) bool {
	if c.Empty() {
		return false
	}
	if c.TotalAttempts != nil && m.TotalAttempts < *c.TotalAttempts {
		return false
	}
	if c.TotalCorrect != nil && m.TotalCorrect < *c.TotalCorrect {
		return false
	}
	if c.TotalPracticeSeconds != nil && m.TotalPracticeSeconds < *c.TotalPracticeSeconds {
		return false
	}
	if c.CurrentStreak != nil && m.CurrentStreak < *c.CurrentStreak {
		return false
	}
	if c.MinAccuracy != nil {
		if m.TotalAttempts == 0 {
			return false
		}
		accuracy := float64(m.TotalCorrect) / float64(m.TotalAttempts) * 100
		if accuracy < *c.MinAccuracy {
			return false
		}
	}
	return true
}

func (s *AchievementService) GetStudentAchievements(studentID uint) ([]model.StudentAchievement, error) {
	return s.AchievementRepo.FindEarnedByStudent(studentID)
}

func (s *AchievementService) GetAllAchievements() ([]model.Achievement, error) {
	return s.AchievementRepo.FindAll()
}

func (s *AchievementService) CreateAchievement(req AchievementRequest) (*model.Achievement, error) {
	achievement := &model.Achievement{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Criteria:    req.Criteria,
	}
	if _, err := achievement.ParseCriteria(); err != nil {
		return nil, errors.New("criteria is not valid JSON")
	}
	if err := s.AchievementRepo.Create(achievement); err != nil {
		return nil, err
	}
	return achievement, nil
}

func (s *AchievementService) UpdateAchievement(id uint, req AchievementRequest) (*model.Achievement, error) {
	achievement, err := s.AchievementRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	achievement.Name = req.Name
	achievement.Description = req.Description
	achievement.Icon = req.Icon
	achievement.Criteria = req.Criteria
	if _, err := achievement.ParseCriteria(); err != nil {
		return nil, errors.New("criteria is not valid JSON")
	}
	if err := s.AchievementRepo.Update(achievement); err != nil {
		return nil, err
	}
	return achievement, nil
}

func (s *AchievementService) DeleteAchievement(id uint) error {
	achievement, err := s.AchievementRepo.FindByID(id)
	if err != nil {
		return err
	}
	return s.AchievementRepo.Delete(achievement)
}

// GetLeaderboard 按已获成就数排名。缓存固定的前 leaderboardCacheMax 名，
// 再按请求截断，缓存故障只降级不报错。
func (s *AchievementService) GetLeaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	if limit <= 0 || limit > leaderboardCacheMax {
		limit = leaderboardCacheMax
	}

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []repository.LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				if len(entries) > limit {
					entries = entries[:limit]
				}
				return entries, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	entries, err := s.AchievementRepo.Leaderboard(leaderboardCacheMax)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, data, 5*time.Minute).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
