package repository

import (
	"ba_api/internal/domain/blog/model"

	"gorm.io/gorm"
)

// BlogRepository 博客仓库
type BlogRepository interface {
	Create(post *model.BlogPost) error
	GetByID(id string) (*model.BlogPost, error)
	GetList(keyword, category string, offset, limit int) ([]model.BlogPost, int64, error)
	Update(post *model.BlogPost) error
	Delete(post *model.BlogPost) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository 创建仓库实例
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(post *model.BlogPost) error {
	return r.db.Create(post).Error
}

func (r *blogRepository) GetByID(id string) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogRepository) GetList(keyword, category string, offset, limit int) ([]model.BlogPost, int64, error) {
	var posts []model.BlogPost
	var total int64

	query := r.db.Model(&model.BlogPost{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("title ILIKE ? OR summary ILIKE ?", like, like)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *blogRepository) Update(post *model.BlogPost) error {
	return r.db.Save(post).Error
}

func (r *blogRepository) Delete(post *model.BlogPost) error {
	return r.db.Delete(post).Error
}
