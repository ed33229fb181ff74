package contact

import (
	"context"
	"log/slog"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/uptrace/bun"
)

const insertContact = `INSERT INTO contacts (name, email, phone, subject, message, status)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

type Repository interface {
	Create(ctx context.Context, msg *ContactMessage) error
	GetAll(ctx context.Context) ([]ContactMessage, error)
}

type repository struct {
	store  *store.Store
	logger *slog.Logger
}

func NewRepository(st *store.Store, logger *slog.Logger) Repository {
	return &repository{
		store:  st,
		logger: logger,
	}
}

// Create inserts msg through a prepared statement and fills in the generated
// id and timestamps.
func (r *repository) Create(ctx context.Context, msg *ContactMessage) error {
	if msg.Status == "" {
		msg.Status = StatusNew
	}

	return r.store.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
		stmt, err := r.store.Prepare(ctx, conn, "contacts", insertContact)
		if err != nil {
			return err
		}
		defer stmt.Close()

		var phone any
		if msg.Phone != "" {
			phone = msg.Phone
		}

		start := time.Now()
		err = stmt.QueryRowContext(ctx,
			msg.Name,
			msg.Email,
			phone,
			msg.Subject,
			msg.Message,
			string(msg.Status),
		).Scan(&msg.ID)
		r.store.Observe(ctx, "insert", "contacts", start, err)
		if err != nil {
			return store.Wrap(store.OpExecute, "contacts", err)
		}

		// Reload to get DB-generated timestamps
		start = time.Now()
		err = conn.NewSelect().Model(msg).WherePK().Scan(ctx)
		r.store.Observe(ctx, "select", "contacts", start, err)
		if err != nil {
			// The row is committed; the caller only misses the stored timestamp.
			r.logger.WarnContext(ctx, "failed to reload contact message", "id", msg.ID, "error", err)
			msg.CreatedAt = time.Now().UTC()
			msg.UpdatedAt = msg.CreatedAt
		}
		return nil
	})
}

func (r *repository) GetAll(ctx context.Context) ([]ContactMessage, error) {
	var msgs []ContactMessage
	err := r.store.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
		start := time.Now()
		err := conn.NewSelect().
			Model(&msgs).
			Order("created_at DESC", "id DESC").
			Scan(ctx)
		r.store.Observe(ctx, "select", "contacts", start, err)
		return store.Wrap(store.OpExecute, "contacts", err)
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
