package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ba_api/internal/domain/study/model"
	"ba_api/internal/domain/study/repository"
	"ba_api/pkg/cache"
	"ba_api/pkg/metrics"
	"ba_api/pkg/utils"

	"gorm.io/gorm"
)

// 服务层错误
var (
	ErrStudyNotFound = errors.New("study not found")
	ErrInvalidStudy  = errors.New("invalid study data")
)

const (
	listCacheTTL = 5 * time.Minute
	itemCacheTTL = 10 * time.Minute
)

// StudyInput 创建/更新输入
type StudyInput struct {
	Name        string
	Description string
	Image       string
	Price       float64
	Category    string
}

func (in StudyInput) validate() error {
	if in.Name == "" || in.Description == "" {
		return fmt.Errorf("%w: name and description are required", ErrInvalidStudy)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidStudy)
	}
	return nil
}

// StudyService 可行性研究服务
type StudyService interface {
	Create(ctx context.Context, in StudyInput) (*model.Study, error)
	Get(ctx context.Context, id string) (*model.Study, error)
	List(ctx context.Context, p utils.Pagination, keyword, category string) ([]model.Study, int64, error)
	Update(ctx context.Context, id string, in StudyInput) (*model.Study, error)
	Delete(ctx context.Context, id string) error
}

type studyService struct {
	repo  repository.StudyRepository
	cache cache.CacheService
}

// NewStudyService 创建服务实例
func NewStudyService(repo repository.StudyRepository, c cache.CacheService) StudyService {
	return &studyService{repo: repo, cache: c}
}

func itemKey(id string) string { return "study:item:" + id }

func listKey(page, limit int, keyword, category string) string {
	return fmt.Sprintf("study:list:%d:%d:%s:%s", page, limit, keyword, category)
}

func (s *studyService) Create(ctx context.Context, in StudyInput) (*model.Study, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	study := &model.Study{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		Category:    in.Category,
	}
	if err := s.repo.Create(study); err != nil {
		return nil, err
	}

	s.invalidate(ctx, study.ID)
	return study, nil
}

func (s *studyService) Get(ctx context.Context, id string) (*model.Study, error) {
	var cached model.Study
	if err := s.cache.Get(ctx, itemKey(id), &cached); err == nil {
		metrics.GlobalCollector.ObserveCacheHit("study")
		return &cached, nil
	}
	metrics.GlobalCollector.ObserveCacheMiss("study")

	study, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}

	_ = s.cache.Set(ctx, itemKey(id), study, itemCacheTTL)
	return study, nil
}

// cachedList 列表缓存结构
type cachedList struct {
	List  []model.Study `json:"list"`
	Total int64         `json:"total"`
}

func (s *studyService) List(ctx context.Context, p utils.Pagination, keyword, category string) ([]model.Study, int64, error) {
	offset, limit := p.GetPageOffset()
	key := listKey(p.Page, limit, keyword, category)

	var cached cachedList
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		metrics.GlobalCollector.ObserveCacheHit("study")
		return cached.List, cached.Total, nil
	}
	metrics.GlobalCollector.ObserveCacheMiss("study")

	studies, total, err := s.repo.GetList(repository.ListFilter{
		Keyword:  keyword,
		Category: category,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, err
	}

	_ = s.cache.Set(ctx, key, cachedList{List: studies, Total: total}, listCacheTTL)
	return studies, total, nil
}

func (s *studyService) Update(ctx context.Context, id string, in StudyInput) (*model.Study, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	study, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}

	study.Name = in.Name
	study.Description = in.Description
	study.Image = in.Image
	study.Price = in.Price
	study.Category = in.Category

	if err := s.repo.Update(study); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return study, nil
}

func (s *studyService) Delete(ctx context.Context, id string) error {
	study, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudyNotFound
		}
		return err
	}

	if err := s.repo.Delete(study); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

// invalidate 写操作后清掉单条与列表缓存
func (s *studyService) invalidate(ctx context.Context, id string) {
	_ = s.cache.Delete(ctx, itemKey(id))
	_ = s.cache.InvalidatePattern(ctx, "study:list:*")
}
