package controller

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseAssignmentStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "COMPLETED", "OVERDUE"} {
		status, ok := parseAssignmentStatus(raw)
		assert.True(t, ok)
		assert.Equal(t, model.AssignmentStatus(raw), status)
	}

	for _, raw := range []string{"pending", "DONE", "xyz"} {
		_, ok := parseAssignmentStatus(raw)
		assert.False(t, ok, raw)
	}
}

func newAssignmentTestController(t *testing.T) (*AssignmentController, *gorm.DB) {
	t.Helper()
	logger.Log = zap.NewNop()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.GroupStudent{},
		&model.Exercise{},
		&model.ExerciseAttempt{},
		&model.Homework{},
		&model.HomeworkExercise{},
		&model.HomeworkAssignment{},
		&model.HomeworkAssignmentStudent{},
		&model.HomeworkAssignmentGroup{},
	))

	svc := service.NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewHomeworkRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewGroupRepository(db),
		repository.NewUserRepository(db),
	)
	return NewAssignmentController(svc), db
}

func TestSweepOverdueEndpoint(t *testing.T) {
	c, db := newAssignmentTestController(t)

	homework := &model.Homework{Title: "课后练习", TeacherID: 1}
	require.NoError(t, db.Create(homework).Error)
	require.NoError(t, db.Create(&model.HomeworkAssignment{
		HomeworkID: homework.ID,
		DueDate:    time.Now().Add(-24 * time.Hour),
	}).Error)

	router := gin.New()
	router.POST("/admin/assignments/overdue-sweep", c.SweepOverdue)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/assignments/overdue-sweep", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"flipped":1`)

	// 再扫一次没有可翻转的
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/assignments/overdue-sweep", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"flipped":0`)
}

func TestTeacherAssignmentsRejectsUnknownStatus(t *testing.T) {
	c, _ := newAssignmentTestController(t)

	router := gin.New()
	router.GET("/teacher/assignments", func(ctx *gin.Context) {
		ctx.Set("user", &util.Claims{UserID: 1, Role: model.Teacher})
		c.GetTeacherAssignments(ctx)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teacher/assignments?status=DONE", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
