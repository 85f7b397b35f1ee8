package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ba_api/internal/domain/blog/model"
	"ba_api/internal/domain/blog/repository"
	"ba_api/pkg/cache"
	"ba_api/pkg/metrics"
	"ba_api/pkg/utils"

	"gorm.io/gorm"
)

// ErrPostNotFound 文章不存在
var ErrPostNotFound = errors.New("blog post not found")

const (
	listCacheTTL = 5 * time.Minute
	itemCacheTTL = 10 * time.Minute
)

// PostInput 创建/更新输入
type PostInput struct {
	Title        string
	Summary      string
	Content      json.RawMessage
	Image        string
	Category     string
	Tags         json.RawMessage
	AuthorName   string
	AuthorAvatar string
	ReadTime     int
}

// BlogService 博客服务
type BlogService interface {
	Create(ctx context.Context, in PostInput) (*model.BlogPost, error)
	Get(ctx context.Context, id string) (*model.BlogPost, error)
	List(ctx context.Context, p utils.Pagination, keyword, category string) ([]model.BlogPost, int64, error)
	Update(ctx context.Context, id string, in PostInput) (*model.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

type blogService struct {
	repo  repository.BlogRepository
	cache cache.CacheService
}

// NewBlogService 创建服务实例
func NewBlogService(repo repository.BlogRepository, c cache.CacheService) BlogService {
	return &blogService{repo: repo, cache: c}
}

func itemKey(id string) string { return "blog:item:" + id }

func listKey(page, limit int, keyword, category string) string {
	return fmt.Sprintf("blog:list:%d:%d:%s:%s", page, limit, keyword, category)
}

func (s *blogService) Create(ctx context.Context, in PostInput) (*model.BlogPost, error) {
	if in.Title == "" {
		return nil, errors.New("title is required")
	}

	post := &model.BlogPost{
		Title:        in.Title,
		Summary:      in.Summary,
		Content:      in.Content,
		Image:        in.Image,
		Category:     in.Category,
		Tags:         in.Tags,
		AuthorName:   in.AuthorName,
		AuthorAvatar: in.AuthorAvatar,
		ReadTime:     in.ReadTime,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}

	s.invalidate(ctx, post.ID)
	return post, nil
}

func (s *blogService) Get(ctx context.Context, id string) (*model.BlogPost, error) {
	var cached model.BlogPost
	if err := s.cache.Get(ctx, itemKey(id), &cached); err == nil {
		metrics.GlobalCollector.ObserveCacheHit("blog")
		return &cached, nil
	}
	metrics.GlobalCollector.ObserveCacheMiss("blog")

	post, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	_ = s.cache.Set(ctx, itemKey(id), post, itemCacheTTL)
	return post, nil
}

// cachedList 列表缓存结构
type cachedList struct {
	List  []model.BlogPost `json:"list"`
	Total int64            `json:"total"`
}

func (s *blogService) List(ctx context.Context, p utils.Pagination, keyword, category string) ([]model.BlogPost, int64, error) {
	offset, limit := p.GetPageOffset()
	key := listKey(p.Page, limit, keyword, category)

	var cached cachedList
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		metrics.GlobalCollector.ObserveCacheHit("blog")
		return cached.List, cached.Total, nil
	}
	metrics.GlobalCollector.ObserveCacheMiss("blog")

	posts, total, err := s.repo.GetList(keyword, category, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	_ = s.cache.Set(ctx, key, cachedList{List: posts, Total: total}, listCacheTTL)
	return posts, total, nil
}

func (s *blogService) Update(ctx context.Context, id string, in PostInput) (*model.BlogPost, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Summary != "" {
		post.Summary = in.Summary
	}
	if in.Content != nil {
		post.Content = in.Content
	}
	if in.Image != "" {
		post.Image = in.Image
	}
	if in.Category != "" {
		post.Category = in.Category
	}
	if in.Tags != nil {
		post.Tags = in.Tags
	}
	if in.AuthorName != "" {
		post.AuthorName = in.AuthorName
	}
	if in.AuthorAvatar != "" {
		post.AuthorAvatar = in.AuthorAvatar
	}
	if in.ReadTime > 0 {
		post.ReadTime = in.ReadTime
	}

	if err := s.repo.Update(post); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return post, nil
}

func (s *blogService) Delete(ctx context.Context, id string) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if err := s.repo.Delete(post); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

// invalidate 写操作后清掉单条与列表缓存
func (s *blogService) invalidate(ctx context.Context, id string) {
	_ = s.cache.Delete(ctx, itemKey(id))
	_ = s.cache.InvalidatePattern(ctx, "blog:list:*")
}
