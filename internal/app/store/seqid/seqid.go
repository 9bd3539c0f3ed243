// internal/app/store/seqid/seqid.go
//
// Package seqid hands out the numeric, human-facing ids stored in the "id"
// field of every entity. Ids are max(id)+1 per collection, counting
// soft-deleted documents, so an id is never reused.
package seqid

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultAttempts is how many times Insert allocates before giving up.
const DefaultAttempts = 3

// Allocator computes the next id of a collection.
type Allocator struct {
	g   *gateway.Gateway
	log *zap.Logger
}

// New returns an Allocator reading through g.
func New(g *gateway.Gateway, logger *zap.Logger) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{g: g, log: logger}
}

// Next returns max(id)+1 for coll, or 1 for an empty collection. If the
// candidate turns out to be taken already it returns *apperr.IDCollisionError.
func (a *Allocator) Next(ctx context.Context, coll string) (int64, error) {
	var last struct {
		ID int64 `bson:"id"`
	}
	candidate := int64(1)
	err := a.g.FindLast(ctx, coll, bson.M{"id": bson.M{"$type": "number"}}, &last)
	switch {
	case err == nil:
		candidate = last.ID + 1
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return 0, err
	}

	var taken bson.M
	err = a.g.FindOne(ctx, coll, bson.M{"id": candidate}, &taken)
	switch {
	case err == nil:
		return 0, &apperr.IDCollisionError{Collection: coll, ID: candidate}
	case errors.Is(err, apperr.ErrNotFound):
		return candidate, nil
	}
	return 0, err
}

// Insert allocates an id, builds the document with it and writes it through
// the gateway. It allocates again when the id was taken between the read and
// the write, either by the allocator's own check or by the unique id index.
// Other duplicate-key errors are returned as is.
func (a *Allocator) Insert(ctx context.Context, coll string, build func(id int64) any, withAudit bool, attempts int) (int64, gateway.InsertResult, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		id, err := a.Next(ctx, coll)
		if err != nil {
			var ce *apperr.IDCollisionError
			if errors.As(err, &ce) {
				lastErr = err
				a.log.Warn("id collision, retrying", zap.String("collection", coll), zap.Int64("id", ce.ID), zap.Int("attempt", i+1))
				continue
			}
			return 0, gateway.InsertResult{}, err
		}

		res, err := a.g.Insert(ctx, coll, build(id), withAudit)
		if err == nil {
			return id, res, nil
		}
		// The primary write went through; only the mirror failed.
		if res.InsertedID != nil {
			return id, res, err
		}
		if isIDDup(err) {
			lastErr = &apperr.IDCollisionError{Collection: coll, ID: id}
			a.log.Warn("id taken on insert, retrying", zap.String("collection", coll), zap.Int64("id", id), zap.Int("attempt", i+1))
			continue
		}
		return 0, gateway.InsertResult{}, err
	}
	return 0, gateway.InsertResult{}, lastErr
}

// isIDDup reports a duplicate-key error raised by the unique index on id
// (named uniq_<collection>_id).
func isIDDup(err error) bool {
	var se *apperr.StorageError
	if errors.As(err, &se) {
		err = se.Err
	}
	if !wafflemongo.IsDup(err) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "_id dup key") || strings.Contains(msg, "dup key: { id:")
}
