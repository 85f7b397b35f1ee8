package repository

import (
	"ba_api/internal/domain/idea/model"

	"gorm.io/gorm"
)

// IdeaRepository 点子仓库
type IdeaRepository interface {
	Create(idea *model.Idea) error
	GetByID(id string) (*model.Idea, error)
	GetList(keyword, category string, offset, limit int) ([]model.Idea, int64, error)
	Update(idea *model.Idea) error
	Delete(idea *model.Idea) error
	IncrementViews(id string) error
	IncrementLikes(id string) error
}

type ideaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository 创建仓库实例
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(idea *model.Idea) error {
	return r.db.Create(idea).Error
}

func (r *ideaRepository) GetByID(id string) (*model.Idea, error) {
	var idea model.Idea
	if err := r.db.Where("id = ?", id).First(&idea).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepository) GetList(keyword, category string, offset, limit int) ([]model.Idea, int64, error) {
	var ideas []model.Idea
	var total int64

	query := r.db.Model(&model.Idea{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&ideas).Error; err != nil {
		return nil, 0, err
	}
	return ideas, total, nil
}

func (r *ideaRepository) Update(idea *model.Idea) error {
	return r.db.Save(idea).Error
}

func (r *ideaRepository) Delete(idea *model.Idea) error {
	return r.db.Delete(idea).Error
}

// IncrementViews 原子自增阅读数
func (r *ideaRepository) IncrementViews(id string) error {
	return r.db.Model(&model.Idea{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// IncrementLikes 原子自增点赞数
func (r *ideaRepository) IncrementLikes(id string) error {
	return r.db.Model(&model.Idea{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}
