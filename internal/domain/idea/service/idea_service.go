package service

import (
	"context"
	"encoding/json"
	"errors"

	"ba_api/internal/domain/idea/model"
	"ba_api/internal/domain/idea/repository"
	"ba_api/pkg/logger"
	"ba_api/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrIdeaNotFound 点子不存在
var ErrIdeaNotFound = errors.New("idea not found")

// IdeaInput 创建/更新输入
type IdeaInput struct {
	Name        string
	Description string
	Category    string
	Content     json.RawMessage
	Image       string
}

// IdeaService 点子服务
type IdeaService interface {
	Create(ctx context.Context, in IdeaInput) (*model.Idea, error)
	Get(ctx context.Context, id string) (*model.Idea, error)
	List(ctx context.Context, p utils.Pagination, keyword, category string) ([]model.Idea, int64, error)
	Update(ctx context.Context, id string, in IdeaInput) (*model.Idea, error)
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, id string) error
}

type ideaService struct {
	repo repository.IdeaRepository
}

// NewIdeaService 创建服务实例
func NewIdeaService(repo repository.IdeaRepository) IdeaService {
	return &ideaService{repo: repo}
}

func (s *ideaService) Create(ctx context.Context, in IdeaInput) (*model.Idea, error) {
	if in.Name == "" {
		return nil, errors.New("name is required")
	}

	idea := &model.Idea{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Content:     in.Content,
		Image:       in.Image,
	}
	if err := s.repo.Create(idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// Get 读取详情并自增阅读数
func (s *ideaService) Get(ctx context.Context, id string) (*model.Idea, error) {
	idea, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	// 阅读数失败不影响读取
	if err := s.repo.IncrementViews(id); err != nil {
		logger.Log.Warn("failed to increment views", zap.String("idea_id", id), zap.Error(err))
	} else {
		idea.Views++
	}
	return idea, nil
}

func (s *ideaService) List(ctx context.Context, p utils.Pagination, keyword, category string) ([]model.Idea, int64, error) {
	offset, limit := p.GetPageOffset()
	return s.repo.GetList(keyword, category, offset, limit)
}

func (s *ideaService) Update(ctx context.Context, id string, in IdeaInput) (*model.Idea, error) {
	idea, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	if in.Name != "" {
		idea.Name = in.Name
	}
	if in.Description != "" {
		idea.Description = in.Description
	}
	if in.Category != "" {
		idea.Category = in.Category
	}
	if in.Content != nil {
		idea.Content = in.Content
	}
	if in.Image != "" {
		idea.Image = in.Image
	}

	if err := s.repo.Update(idea); err != nil {
		return nil, err
	}
	return idea, nil
}

func (s *ideaService) Delete(ctx context.Context, id string) error {
	idea, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdeaNotFound
		}
		return err
	}
	return s.repo.Delete(idea)
}

func (s *ideaService) Like(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdeaNotFound
		}
		return err
	}
	return s.repo.IncrementLikes(id)
}
