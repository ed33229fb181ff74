package project

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/uptrace/bun"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Project, error)
	GetFeatured(ctx context.Context, limit int) ([]Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
}

type repository struct {
	store *store.Store
}

func NewRepository(st *store.Store) Repository {
	return &repository{store: st}
}

func (r *repository) GetAll(ctx context.Context) ([]Project, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q
	})
}

func (r *repository) GetFeatured(ctx context.Context, limit int) ([]Project, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("featured = ?", true).Limit(limit)
	})
}

func (r *repository) list(ctx context.Context, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]Project, error) {
	var projects []Project
	err := r.store.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
		start := time.Now()
		q := conn.NewSelect().
			Model(&projects).
			Order("created_at DESC", "id DESC")
		err := filter(q).Scan(ctx)
		r.store.Observe(ctx, "select", "projects", start, err)
		return store.Wrap(store.OpExecute, "projects", err)
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Project, error) {
	project := new(Project)
	err := r.store.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
		start := time.Now()
		err := conn.NewSelect().Model(project).Where("id = ?", id).Scan(ctx)
		r.store.Observe(ctx, "select", "projects", start, err)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProjectNotFound
		}
		return store.Wrap(store.OpExecute, "projects", err)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}
