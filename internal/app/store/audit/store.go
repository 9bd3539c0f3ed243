// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	"github.com/dalemusser/lcmsadmin/internal/app/store/seqid"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collection holds one row per admin action.
const Collection = "admin_log"

// QueryFilter narrows a List. Empty fields match everything.
type QueryFilter struct {
	Action  string
	Entity  string
	AdminID int64
	Since   *time.Time
	Until   *time.Time
	Skip    int64
	Limit   int64
}

// Store manages admin_log rows.
type Store struct {
	g   *gateway.Gateway
	ids *seqid.Allocator
	log *zap.Logger
}

// New creates an admin log Store.
func New(g *gateway.Gateway, ids *seqid.Allocator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{g: g, ids: ids, log: logger}
}

// Log stores entry. The id comes from the allocator; when allocation fails
// a millisecond timestamp is used instead so the action is still recorded.
// Rows are never mirrored.
func (s *Store) Log(ctx context.Context, entry models.AdminLog) (models.AdminLog, error) {
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = entry.CreatedAt

	id, err := s.ids.Next(ctx, Collection)
	if err != nil {
		id = now.UnixMilli()
		s.log.Warn("admin_log id allocation failed, using timestamp", zap.Int64("id", id), zap.Error(err))
	}
	entry.ID = id

	if _, err := s.g.Insert(ctx, Collection, entry, false); err != nil {
		return models.AdminLog{}, err
	}
	return entry, nil
}

func (f QueryFilter) query() bson.M {
	q := bson.M{}
	if f.Action != "" {
		q["action"] = f.Action
	}
	if f.Entity != "" {
		q["entity"] = f.Entity
	}
	if f.AdminID != 0 {
		q["adminId"] = f.AdminID
	}
	if f.Since != nil || f.Until != nil {
		r := bson.M{}
		if f.Since != nil {
			r["$gte"] = *f.Since
		}
		if f.Until != nil {
			r["$lte"] = *f.Until
		}
		q["__new"] = r
	}
	return q
}

// List returns one page of entries, newest first, plus the total matching f.
func (s *Store) List(ctx context.Context, f QueryFilter) ([]models.AdminLog, int64, error) {
	q := f.query()
	var (
		entries []models.AdminLog
		total   int64
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.g.Find(ectx, Collection, q, gateway.FindOptions{
			Skip:  f.Skip,
			Limit: f.Limit,
			Sort:  bson.D{{Key: "__new", Value: -1}, {Key: "id", Value: -1}},
		}, &entries)
	})
	eg.Go(func() error {
		n, err := s.g.Count(ectx, Collection, q)
		total = n
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	if entries == nil {
		entries = []models.AdminLog{}
	}
	return entries, total, nil
}
