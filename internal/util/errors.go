package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrHomeworkNotFound    = errors.New("homework not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrExerciseNotFound    = errors.New("exercise not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrStudentNotFound     = errors.New("student not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrDuplicateTitle      = errors.New("homework title already used by this teacher")
	ErrChallengeExists     = errors.New("daily challenge already exists for this date")
)
