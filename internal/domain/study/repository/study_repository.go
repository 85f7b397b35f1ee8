package repository

import (
	"ba_api/internal/domain/study/model"

	"gorm.io/gorm"
)

// ListFilter 列表查询条件
type ListFilter struct {
	Keyword  string
	Category string
	Offset   int
	Limit    int
}

// StudyRepository 可行性研究仓库
type StudyRepository interface {
	Create(study *model.Study) error
	GetByID(id string) (*model.Study, error)
	GetList(f ListFilter) ([]model.Study, int64, error)
	Update(study *model.Study) error
	Delete(study *model.Study) error
}

type studyRepository struct {
	db *gorm.DB
}

// NewStudyRepository 创建仓库实例
func NewStudyRepository(db *gorm.DB) StudyRepository {
	return &studyRepository{db: db}
}

func (r *studyRepository) Create(study *model.Study) error {
	return r.db.Create(study).Error
}

func (r *studyRepository) GetByID(id string) (*model.Study, error) {
	var study model.Study
	if err := r.db.Where("id = ?", id).First(&study).Error; err != nil {
		return nil, err
	}
	return &study, nil
}

func (r *studyRepository) GetList(f ListFilter) ([]model.Study, int64, error) {
	var studies []model.Study
	var total int64

	query := r.db.Model(&model.Study{})
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(f.Offset).Limit(f.Limit).Order("created_at DESC").Find(&studies).Error; err != nil {
		return nil, 0, err
	}
	return studies, total, nil
}

func (r *studyRepository) Update(study *model.Study) error {
	return r.db.Save(study).Error
}

func (r *studyRepository) Delete(study *model.Study) error {
	return r.db.Delete(study).Error
}
