// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/store/audit"
	menuitemstore "github.com/dalemusser/lcmsadmin/internal/app/store/menuitems"
	menustore "github.com/dalemusser/lcmsadmin/internal/app/store/menus"
	settingsstore "github.com/dalemusser/lcmsadmin/internal/app/store/settings"
	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Every set is idempotent; all failures are
collected so one bad collection does not hide another.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var err error
	for _, set := range Sets() {
		if e := ensureIndexSet(ctx, db.Collection(set.Collection), set.Models, logger); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", set.Collection, e))
		}
	}
	return err
}

// Set is the desired index list of one collection.
type Set struct {
	Collection string
	Models     []mongo.IndexModel
}

// UniqueIDName is the name of the unique index on a collection's numeric id.
// The allocator recognizes duplicate-key errors raised by it.
func UniqueIDName(coll string) string { return "uniq_" + coll + "_id" }

func uniqueID(coll string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(UniqueIDName(coll)),
	}
}

// Sets lists every index the service relies on.
func Sets() []Set {
	return []Set{
		{Collection: menustore.Collection, Models: []mongo.IndexModel{
			uniqueID(menustore.Collection),
			// GetByRole / provisioning: active menus by role string
			{
				Keys:    bson.D{{Key: "ativo", Value: 1}, {Key: "roles", Value: 1}},
				Options: options.Index().SetName("idx_menu_ativo_roles"),
			},
			{
				Keys:    bson.D{{Key: "title", Value: 1}},
				Options: options.Index().SetName("idx_menu_title"),
			},
		}},
		{Collection: menuitemstore.Collection, Models: []mongo.IndexModel{
			uniqueID(menuitemstore.Collection),
			// Provisioning looks items up by path, then title, then name.
			{Keys: bson.D{{Key: "path", Value: 1}}, Options: options.Index().SetName("idx_menuItens_path")},
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetName("idx_menuItens_title")},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName("idx_menuItens_name")},
		}},
		{Collection: userstore.Collection, Models: []mongo.IndexModel{
			uniqueID(userstore.Collection),
			// Logins are unique when set; legacy rows may lack one of them.
			{
				Keys: bson.D{{Key: "userName", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_usuarios_userName").
					SetPartialFilterExpression(bson.M{"userName": bson.M{"$type": "string"}}),
			},
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_usuarios_email").
					SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
			},
			{
				Keys:    bson.D{{Key: "ativo", Value: 1}, {Key: "nomeCI", Value: 1}, {Key: "id", Value: 1}},
				Options: options.Index().SetName("idx_usuarios_ativo_nomeci_id"),
			},
			{
				Keys:    bson.D{{Key: "roles", Value: 1}, {Key: "ativo", Value: 1}},
				Options: options.Index().SetName("idx_usuarios_roles_ativo"),
			},
		}},
		{Collection: settingsstore.Collection, Models: []mongo.IndexModel{
			uniqueID(settingsstore.Collection),
			{
				Keys:    bson.D{{Key: "tipo", Value: 1}, {Key: "ativo", Value: 1}},
				Options: options.Index().SetName("idx_configuracoes_tipo_ativo"),
			},
		}},
		{Collection: audit.Collection, Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "__new", Value: -1}}, Options: options.Index().SetName("idx_admin_log_new")},
			{
				Keys:    bson.D{{Key: "action", Value: 1}, {Key: "__new", Value: -1}},
				Options: options.Index().SetName("idx_admin_log_action_new"),
			},
			{
				Keys:    bson.D{{Key: "entity", Value: 1}, {Key: "__new", Value: -1}},
				Options: options.Index().SetName("idx_admin_log_entity_new"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile one collection                                                   */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates each wanted index. An index with the same keys is
// reused when its uniqueness and name match, and rebuilt otherwise.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, wanted []mongo.IndexModel, log *zap.Logger) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A missing collection lists as an error on some servers; create anyway.
		existing = map[string]existingIndex{}
	}

	var errs error
	for _, m := range wanted {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
		}

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == isUnique(unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index", fields...)
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: drop %s: %w", name, ex.Name, err))
				continue
			}
			log.Info("dropped index for rebuild", append(fields, zap.String("old_name", ex.Name))...)
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && isUnique(unique) {
				errs = multierr.Append(errs, fmt.Errorf("%s: cannot create unique index (duplicates present)", name))
			} else {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			}
			log.Warn("index ensure failed", append(fields, zap.Error(err))...)
			continue
		}
		log.Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}
	return errs
}
