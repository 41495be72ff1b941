package service

import (
	"context"
	"encoding/json"
	"errors"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const todayChallengeCacheKey = "challenge:today"

// ChallengeService 每日挑战，每个日期至多一条。
// 当天的挑战读得最多，走 redis 缓存。
type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	ExerciseRepo  *repository.ExerciseRepository
	Redis         *redis.Client
}

func NewChallengeService(
	challengeRepo *repository.ChallengeRepository,
	exerciseRepo *repository.ExerciseRepository,
	rdb *redis.Client,
) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		ExerciseRepo:  exerciseRepo,
		Redis:         rdb,
	}
}

type ChallengeRequest struct {
	Title         string    `json:"title" binding:"required"`
	ChallengeDate time.Time `json:"challengeDate" binding:"required"`
	ExerciseIDs   []uint    `json:"exerciseIds" binding:"required"`
}

// CreateChallenge 同一天已有挑战则返回冲突
func (s *ChallengeService) CreateChallenge(teacherID uint, req ChallengeRequest) (*model.DailyChallenge, error) {
	if _, err := s.ChallengeRepo.FindByDate(req.ChallengeDate); err == nil {
		return nil, util.ErrChallengeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	for _, eid := range req.ExerciseIDs {
		if _, err := s.ExerciseRepo.FindByID(eid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrExerciseNotFound
			}
			return nil, err
		}
	}

	challenge := &model.DailyChallenge{
		Title:         req.Title,
		ChallengeDate: model.DateOf(req.ChallengeDate),
		TeacherID:     teacherID,
	}
	if err := s.ChallengeRepo.Create(challenge, req.ExerciseIDs); err != nil {
		// 两个教师同时建同一天的挑战，唯一约束兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrChallengeExists
		}
		return nil, err
	}

	s.invalidateTodayCache()
	return challenge, nil
}

// GetTodayChallenge 先查 redis，未命中再落库并回填缓存
func (s *ChallengeService) GetTodayChallenge() (*model.DailyChallenge, error) {
	ctx := context.Background()

	if cached, err := s.Redis.Get(ctx, todayChallengeCacheKey).Result(); err == nil {
		var challenge model.DailyChallenge
		if err := json.Unmarshal([]byte(cached), &challenge); err == nil {
			return &challenge, nil
		}
	}

	challenge, err := s.ChallengeRepo.FindByDate(time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(challenge); err == nil {
		// 缓存到当天结束
		ttl := time.Until(model.DateOf(time.Now()).Add(24 * time.Hour))
		if err := s.Redis.Set(ctx, todayChallengeCacheKey, data, ttl).Err(); err != nil {
			logger.Log.Warn("today challenge cache write failed", zap.Error(err))
		}
	}
	return challenge, nil
}

func (s *ChallengeService) GetChallenge(id uint) (*model.DailyChallenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) GetRecentChallenges(limit int) ([]model.DailyChallenge, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.ChallengeRepo.FindRecent(limit)
}

func (s *ChallengeService) DeleteChallenge(id uint) error {
	challenge, err := s.GetChallenge(id)
	if err != nil {
		return err
	}
	if err := s.ChallengeRepo.Delete(challenge); err != nil {
		return err
	}
	s.invalidateTodayCache()
	return nil
}

func (s *ChallengeService) invalidateTodayCache() {
	if err := s.Redis.Del(context.Background(), todayChallengeCacheKey).Err(); err != nil {
		logger.Log.Warn("today challenge cache invalidation failed", zap.Error(err))
	}
}
