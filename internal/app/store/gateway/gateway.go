// internal/app/store/gateway/gateway.go
//
// Package gateway is the collection-agnostic accessor every store goes
// through. Writes can optionally be mirrored into an audit collection: each
// mirrored row is a full copy of the written document tagged with the source
// collection, the operation, and the source _id.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// DefaultAuditCollection is where mirrored writes land unless configured.
const DefaultAuditCollection = "lcms"

// Mirror operations.
const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
)

// Mirror bookkeeping fields.
const (
	FieldCollection   = "__collection"
	FieldOperation    = "__operation"
	FieldIDCollection = "_idCollection"
	FieldCreated      = "__new"
	FieldEdited       = "__editado"
)

// FindOptions bounds a Find. Zero Skip/Limit mean "none"; a nil Sort keeps
// storage order.
type FindOptions struct {
	Skip  int64
	Limit int64
	Sort  bson.D
}

// InsertResult reports the primary _id and, for audited writes, the _id of
// the mirror row.
type InsertResult struct {
	InsertedID any
	AuditID    any
}

// UpdateResult reports driver counts and, for audited writes, the _id of the
// mirror row.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	AuditID       any
}

// Gateway wraps one database handle.
type Gateway struct {
	db        *mongo.Database
	auditColl string
	log       *zap.Logger
}

// New returns a Gateway over db. An empty auditCollection selects
// DefaultAuditCollection.
func New(db *mongo.Database, auditCollection string, logger *zap.Logger) *Gateway {
	if auditCollection == "" {
		auditCollection = DefaultAuditCollection
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{db: db, auditColl: auditCollection, log: logger}
}

// DB returns the underlying database handle.
func (g *Gateway) DB() *mongo.Database { return g.db }

// AuditCollection returns the name of the mirror collection.
func (g *Gateway) AuditCollection() string { return g.auditColl }

// NotDeleted matches documents whose isDeleted flag is absent or false.
func NotDeleted() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"isDeleted": bson.M{"$exists": false}},
		bson.M{"isDeleted": false},
	}}
}

// FindOne decodes the first document matching filter into out.
// It returns apperr.ErrNotFound when nothing matches.
func (g *Gateway) FindOne(ctx context.Context, coll string, filter any, out any) error {
	return g.findOne(ctx, coll, filter, out, nil)
}

// FindByID is FindOne on the numeric id field.
func (g *Gateway) FindByID(ctx context.Context, coll string, id int64, out any) error {
	return g.findOne(ctx, coll, bson.M{"id": id}, out, nil)
}

// FindLast returns the matching document with the highest id.
func (g *Gateway) FindLast(ctx context.Context, coll string, filter any, out any) error {
	return g.findOne(ctx, coll, filter, out, options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}}))
}

func (g *Gateway) findOne(ctx context.Context, coll string, filter any, out any, opts *options.FindOneOptions) error {
	if filter == nil {
		filter = bson.M{}
	}
	var err error
	if opts != nil {
		err = g.db.Collection(coll).FindOne(ctx, filter, opts).Decode(out)
	} else {
		err = g.db.Collection(coll).FindOne(ctx, filter).Decode(out)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.ErrNotFound
	}
	return apperr.Storage("findOne", coll, err)
}

// Find decodes every document matching filter into out, which must be a
// pointer to a slice.
func (g *Gateway) Find(ctx context.Context, coll string, filter any, fo FindOptions, out any) error {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find()
	if fo.Skip > 0 {
		opts.SetSkip(fo.Skip)
	}
	if fo.Limit > 0 {
		opts.SetLimit(fo.Limit)
	}
	if len(fo.Sort) > 0 {
		opts.SetSort(fo.Sort)
	}
	cur, err := g.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return apperr.Storage("find", coll, err)
	}
	defer cur.Close(ctx)
	return apperr.Storage("find", coll, cur.All(ctx, out))
}

// Aggregate runs pipeline and decodes the results into out.
func (g *Gateway) Aggregate(ctx context.Context, coll string, pipeline any, out any) error {
	cur, err := g.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return apperr.Storage("aggregate", coll, err)
	}
	defer cur.Close(ctx)
	return apperr.Storage("aggregate", coll, cur.All(ctx, out))
}

// Count counts documents matching filter, deleted or not.
func (g *Gateway) Count(ctx context.Context, coll string, filter any) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	n, err := g.db.Collection(coll).CountDocuments(ctx, filter)
	return n, apperr.Storage("count", coll, err)
}

// CountAll counts documents matching filter that are not soft-deleted.
func (g *Gateway) CountAll(ctx context.Context, coll string, filter bson.M) (int64, error) {
	q := NotDeleted()
	if len(filter) > 0 {
		q = bson.M{"$and": bson.A{filter, q}}
	}
	return g.Count(ctx, coll, q)
}

// Insert writes doc into coll. With withAudit set (and coll not being the
// audit collection itself), __editado is stamped from __new (or now) before
// the write and a CREATE mirror row follows it. A failed primary write skips
// the mirror; a failed mirror write is returned after the primary succeeded.
func (g *Gateway) Insert(ctx context.Context, coll string, doc any, withAudit bool) (InsertResult, error) {
	if !withAudit || coll == g.auditColl {
		res, err := g.db.Collection(coll).InsertOne(ctx, doc)
		if err != nil {
			return InsertResult{}, apperr.Storage("insert", coll, err)
		}
		return InsertResult{InsertedID: res.InsertedID}, nil
	}

	d, err := toDoc(doc)
	if err != nil {
		return InsertResult{}, apperr.Storage("insert", coll, err)
	}
	if created, ok := lookup(d, FieldCreated); ok && created != nil {
		d = set(d, FieldEdited, created)
	} else {
		d = set(d, FieldEdited, time.Now().UTC())
	}

	res, err := g.db.Collection(coll).InsertOne(ctx, d)
	if err != nil {
		return InsertResult{}, apperr.Storage("insert", coll, err)
	}
	out := InsertResult{InsertedID: res.InsertedID}

	auditID, err := g.mirror(ctx, coll, OpCreate, res.InsertedID, d)
	if err != nil {
		return out, err
	}
	out.AuditID = auditID
	return out, nil
}

// Update applies patch with $set to the first document matching filter.
func (g *Gateway) Update(ctx context.Context, coll string, filter any, patch any) (UpdateResult, error) {
	res, err := g.db.Collection(coll).UpdateOne(ctx, filter, bson.M{"$set": patch})
	if err != nil {
		return UpdateResult{}, apperr.Storage("update", coll, err)
	}
	return UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// UpdateWithAudit applies a raw update expression to the first document
// matching filter. When the document actually changed, __editado is stamped
// and, with withAudit set, the post-update state is mirrored as UPDATE.
func (g *Gateway) UpdateWithAudit(ctx context.Context, coll string, filter any, update any, withAudit bool) (UpdateResult, error) {
	c := g.db.Collection(coll)

	// Pin the target by _id so the re-read still finds it if the update
	// changes a field the filter depends on.
	var target struct {
		ID any `bson:"_id"`
	}
	err := c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Decode(&target)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return UpdateResult{}, nil
	}
	if err != nil {
		return UpdateResult{}, apperr.Storage("update", coll, err)
	}
	byID := bson.M{"_id": target.ID}

	res, err := c.UpdateOne(ctx, byID, update)
	if err != nil {
		return UpdateResult{}, apperr.Storage("update", coll, err)
	}
	out := UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
	if res.ModifiedCount == 0 {
		return out, nil
	}

	var post bson.D
	err = c.FindOneAndUpdate(ctx, byID,
		bson.M{"$set": bson.M{FieldEdited: time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return out, apperr.Storage("update", coll, err)
	}

	if !withAudit || coll == g.auditColl {
		return out, nil
	}
	auditID, err := g.mirror(ctx, coll, OpUpdate, target.ID, post)
	if err != nil {
		return out, err
	}
	out.AuditID = auditID
	return out, nil
}

// SoftDelete flags the first document matching filter as deleted. The
// document stays in the collection and keeps its id.
func (g *Gateway) SoftDelete(ctx context.Context, coll string, filter any) (UpdateResult, error) {
	res, err := g.db.Collection(coll).UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"isDeleted": true,
		FieldEdited: time.Now().UTC(),
	}})
	if err != nil {
		return UpdateResult{}, apperr.Storage("softDelete", coll, err)
	}
	return UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// mirror writes one audit row. The row gets its own _id; the source _id is
// kept under _idCollection.
func (g *Gateway) mirror(ctx context.Context, coll, op string, sourceID any, d bson.D) (any, error) {
	row := make(bson.D, 0, len(d)+3)
	row = append(row,
		bson.E{Key: FieldCollection, Value: coll},
		bson.E{Key: FieldOperation, Value: op},
		bson.E{Key: FieldIDCollection, Value: sourceID},
	)
	for _, e := range d {
		switch e.Key {
		case "_id", FieldCollection, FieldOperation, FieldIDCollection:
			continue
		}
		row = append(row, e)
	}

	res, err := g.db.Collection(g.auditColl).InsertOne(ctx, row)
	if err != nil {
		g.log.Error("audit mirror write failed",
			zap.String("collection", coll),
			zap.String("operation", op),
			zap.Any("source_id", sourceID),
			zap.Error(err))
		return nil, apperr.Storage("audit", g.auditColl, err)
	}
	return res.InsertedID, nil
}

// toDoc re-encodes v the way the driver would, keeping field order.
func toDoc(v any) (bson.D, error) {
	if d, ok := v.(bson.D); ok {
		return append(bson.D(nil), d...), nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func lookup(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func set(d bson.D, key string, v any) bson.D {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = v
			return d
		}
	}
	return append(d, bson.E{Key: key, Value: v})
}
