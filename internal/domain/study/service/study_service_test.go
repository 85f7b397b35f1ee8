package service

import (
	"context"
	"testing"
	"time"

	"ba_api/internal/domain/study/model"
	"ba_api/internal/domain/study/repository"
	"ba_api/pkg/cache"
	"ba_api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockStudyRepository is a mock of StudyRepository
type MockStudyRepository struct {
	mock.Mock
}

func (m *MockStudyRepository) Create(study *model.Study) error {
	args := m.Called(study)
	return args.Error(0)
}

func (m *MockStudyRepository) GetByID(id string) (*model.Study, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Study), args.Error(1)
}

func (m *MockStudyRepository) GetList(f repository.ListFilter) ([]model.Study, int64, error) {
	args := m.Called(f)
	return args.Get(0).([]model.Study), args.Get(1).(int64), args.Error(2)
}

func (m *MockStudyRepository) Update(study *model.Study) error {
	args := m.Called(study)
	return args.Error(0)
}

func (m *MockStudyRepository) Delete(study *model.Study) error {
	args := m.Called(study)
	return args.Error(0)
}

// MockCache is a mock of cache.CacheService
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) InvalidatePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func newMissCache() *MockCache {
	c := new(MockCache)
	c.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(cache.ErrCacheMiss)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	c.On("Delete", mock.Anything, mock.Anything).Return(nil)
	c.On("InvalidatePattern", mock.Anything, mock.Anything).Return(nil)
	return c
}

func TestCreateStudy(t *testing.T) {
	t.Run("valid input creates and invalidates cache", func(t *testing.T) {
		repo := new(MockStudyRepository)
		c := newMissCache()
		svc := NewStudyService(repo, c)

		repo.On("Create", mock.MatchedBy(func(s *model.Study) bool {
			return s.Name == "دراسة مطعم" && s.Price == 1500
		})).Return(nil)

		study, err := svc.Create(context.Background(), StudyInput{
			Name:        "دراسة مطعم",
			Description: "دراسة جدوى لمشروع مطعم",
			Price:       1500,
			Category:    "مطاعم",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1500.0, study.Price)
		c.AssertCalled(t, "InvalidatePattern", mock.Anything, "study:list:*")
	})

	t.Run("rejects missing fields and non-positive price", func(t *testing.T) {
		repo := new(MockStudyRepository)
		svc := NewStudyService(repo, newMissCache())

		cases := []StudyInput{
			{Description: "d", Price: 100},
			{Name: "n", Price: 100},
			{Name: "n", Description: "d", Price: 0},
			{Name: "n", Description: "d", Price: -5},
		}
		for _, in := range cases {
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidStudy)
		}
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestGetStudy(t *testing.T) {
	t.Run("miss falls through to repository and caches", func(t *testing.T) {
		repo := new(MockStudyRepository)
		c := newMissCache()
		svc := NewStudyService(repo, c)

		study := &model.Study{Name: "n", Description: "d", Price: 100}
		study.ID = "s1"
		repo.On("GetByID", "s1").Return(study, nil)

		result, err := svc.Get(context.Background(), "s1")

		assert.NoError(t, err)
		assert.Equal(t, "s1", result.ID)
		c.AssertCalled(t, "Set", mock.Anything, "study:item:s1", mock.Anything, mock.Anything)
	})

	t.Run("missing study", func(t *testing.T) {
		repo := new(MockStudyRepository)
		svc := NewStudyService(repo, newMissCache())

		repo.On("GetByID", "nope").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Get(context.Background(), "nope")

		assert.ErrorIs(t, err, ErrStudyNotFound)
	})
}

func TestListStudies(t *testing.T) {
	t.Run("forwards filters with capped limit", func(t *testing.T) {
		repo := new(MockStudyRepository)
		svc := NewStudyService(repo, newMissCache())

		repo.On("GetList", mock.MatchedBy(func(f repository.ListFilter) bool {
			return f.Keyword == "مطعم" && f.Category == "cat" && f.Limit == 100
		})).Return([]model.Study{}, int64(0), nil)

		_, _, err := svc.List(context.Background(), utils.Pagination{Page: 1, Limit: 500}, "مطعم", "cat")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
