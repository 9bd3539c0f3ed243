// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/domain/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// EnsureAll creates every declared collection (if missing) and attaches the
// $jsonSchema rendering of its schema. Servers that reject collMod
// validators (some DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		logger.Warn("listCollectionNames failed; creating blindly", zap.Error(err))
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var errs error
	for _, s := range schema.All() {
		if err := ensureOne(ctx, db, s, have[s.Entity], logger); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", s.Entity, err))
		}
	}
	return errs
}

func ensureOne(ctx context.Context, db *mongo.Database, s schema.Schema, exists bool, log *zap.Logger) error {
	if !exists {
		if err := db.CreateCollection(ctx, s.Entity); err != nil && !isNamespaceExistsErr(err) {
			return err
		}
		log.Info("created collection", zap.String("collection", s.Entity))
	}

	cmd := bson.D{
		{Key: "collMod", Value: s.Entity},
		{Key: "validator", Value: s.JSONSchema()},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		if isNoSuchCommand(err) || isNotImplemented(err) {
			log.Info("validator skipped (unsupported)", zap.String("collection", s.Entity))
			return nil
		}
		return err
	}
	log.Info("validator ensured", zap.String("collection", s.Entity))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandMatches(err error, code int32, fragments ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandMatches(err, 115, "not implemented", "not supported")
}
