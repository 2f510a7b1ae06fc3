package postgres

import (
	"context"
	"errors"

	"github.com/wirasatya/business-management/internal/project"
	"gorm.io/gorm"
)

// ProjectRepository implements project.Repository using GORM.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	var proj project.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&proj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proj, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	var projects []*project.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&project.Project{}, "id = ?", id).Error
}
