package project

import (
	"context"
	"errors"
)

// FeaturedLimit caps the featured project list.
const FeaturedLimit = 6

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type Service interface {
	GetAllProjects(ctx context.Context) ([]Project, error)
	GetFeaturedProjects(ctx context.Context) ([]Project, error)
	GetProjectByID(ctx context.Context, id int64) (*Project, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetAllProjects(ctx context.Context) ([]Project, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetFeaturedProjects(ctx context.Context) ([]Project, error) {
	return s.repo.GetFeatured(ctx, FeaturedLimit)
}

func (s *service) GetProjectByID(ctx context.Context, id int64) (*Project, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}
