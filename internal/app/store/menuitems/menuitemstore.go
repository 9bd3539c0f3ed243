// internal/app/store/menuitems/menuitemstore.go
package menuitemstore

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	"github.com/dalemusser/lcmsadmin/internal/app/store/seqid"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/dalemusser/lcmsadmin/internal/domain/schema"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// Collection is the menu items collection name.
const Collection = "menuItens"

// Store provides access to the menuItens collection.
type Store struct {
	g   *gateway.Gateway
	ids *seqid.Allocator
}

// New creates a menu item store.
func New(g *gateway.Gateway, ids *seqid.Allocator) *Store {
	return &Store{g: g, ids: ids}
}

// Input carries the writable fields of a menu item. Nil means "not sent".
// Name is not writable: it always follows Title.
type Input struct {
	Title    *string
	IconName *string
	Path     *string
	Roles    *models.RoleSet
	Props    map[string]any
	ParentID *int64
}

// rules applies the request-level checks. On create title and path are
// required; on update a sent title must still be non-blank and long enough. Path is
// required on both, matching full-replace PUT semantics.
func (in Input) rules(update bool) []string {
	var msgs []string
	title := ""
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if title == "" && (!update || in.Title != nil) {
		msgs = append(msgs, "title é obrigatório")
	}
	if in.Title != nil && title != "" && utf8.RuneCountInString(title) < 3 {
		msgs = append(msgs, "title deve ter pelo menos 3 caracteres")
	}
	if in.Path == nil || strings.TrimSpace(*in.Path) == "" {
		msgs = append(msgs, "O path é obrigatório")
	}
	return msgs
}

// GetByID loads a menu item by numeric id, deleted or not.
func (s *Store) GetByID(ctx context.Context, id int64) (models.MenuItem, error) {
	var m models.MenuItem
	if err := s.g.FindByID(ctx, Collection, id, &m); err != nil {
		return models.MenuItem{}, err
	}
	return m, nil
}

// List returns one page of non-deleted items in storage order plus the total.
func (s *Store) List(ctx context.Context, skip, limit int64) ([]models.MenuItem, int64, error) {
	filter := bson.M{"isDeleted": bson.M{"$ne": true}}

	var (
		items []models.MenuItem
		total int64
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.g.Find(ectx, Collection, filter, gateway.FindOptions{Skip: skip, Limit: limit}, &items)
	})
	eg.Go(func() error {
		n, err := s.g.Count(ectx, Collection, filter)
		total = n
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return items, total, nil
}

// Create validates in and inserts a new item with audit.
func (s *Store) Create(ctx context.Context, in Input) (models.MenuItem, error) {
	if msgs := in.rules(false); len(msgs) > 0 {
		return models.MenuItem{}, apperr.Invalid(msgs...)
	}

	title := strings.TrimSpace(*in.Title)
	m := models.MenuItem{
		Title: title,
		Name:  title,
		Path:  strings.TrimSpace(*in.Path),
		Props: in.Props,
	}
	if in.IconName != nil {
		m.IconName = *in.IconName
	}
	if in.Roles != nil {
		m.Roles = *in.Roles
	}
	m.ParentID = in.ParentID
	return s.Insert(ctx, m, true)
}

// Insert allocates an id, stamps the timestamps and writes m after the
// structural schema check. No request-level rules are applied.
func (s *Store) Insert(ctx context.Context, m models.MenuItem, withAudit bool) (models.MenuItem, error) {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Props == nil {
		m.Props = map[string]any{}
	}

	if res, err := schema.MenuItem.ValidateValue(m); err != nil {
		return models.MenuItem{}, err
	} else if !res.IsValid {
		return models.MenuItem{}, apperr.Invalid(res.Errors...)
	}

	id, _, err := s.ids.Insert(ctx, Collection, func(id int64) any {
		m.ID = id
		return m
	}, withAudit, seqid.DefaultAttempts)
	if err != nil {
		return models.MenuItem{}, err
	}
	m.ID = id
	return m, nil
}

// Update applies the sent fields to item id. It reports whether anything
// changed; on no change the stored item is returned as is.
func (s *Store) Update(ctx context.Context, id int64, in Input) (models.MenuItem, bool, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.MenuItem{}, false, err
	}
	if msgs := in.rules(true); len(msgs) > 0 {
		return models.MenuItem{}, false, apperr.Invalid(msgs...)
	}

	set := bson.M{}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		set["title"] = t
		set["name"] = t
	}
	if in.IconName != nil {
		set["iconName"] = *in.IconName
	}
	if in.Path != nil {
		set["path"] = strings.TrimSpace(*in.Path)
	}
	if in.Roles != nil {
		set["roles"] = *in.Roles
	}
	if in.Props != nil {
		set["props"] = in.Props
	}
	if in.ParentID != nil {
		set["parentId"] = *in.ParentID
	}

	rec, err := schema.ToRecord(set)
	if err != nil {
		return models.MenuItem{}, false, err
	}
	if res := schema.MenuItem.ValidatePartial(rec); !res.IsValid {
		return models.MenuItem{}, false, apperr.Invalid(res.Errors...)
	}

	set["__editado"] = time.Now().UTC()
	res, err := s.g.Update(ctx, Collection, bson.M{"id": id}, set)
	if err != nil {
		return models.MenuItem{}, false, err
	}
	if res.ModifiedCount == 0 {
		return existing, false, nil
	}
	fresh, err := s.GetByID(ctx, id)
	if err != nil {
		return models.MenuItem{}, false, err
	}
	return fresh, true, nil
}

// ErrNotModified is returned when a delete matched but changed nothing.
var ErrNotModified = errors.New("erro ao marcar menu item como deletado")

// SoftDelete flags item id as deleted. Menus that already embed the item
// keep their copy.
func (s *Store) SoftDelete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	res, err := s.g.SoftDelete(ctx, Collection, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotModified
	}
	return nil
}

// FindExisting returns the first stored item matching path when set,
// otherwise title when set, otherwise name. Soft-deleted items count.
func (s *Store) FindExisting(ctx context.Context, path, title, name string) (models.MenuItem, error) {
	var filter bson.M
	switch {
	case path != "":
		filter = bson.M{"path": path}
	case title != "":
		filter = bson.M{"title": title}
	default:
		filter = bson.M{"name": name}
	}
	var m models.MenuItem
	if err := s.g.FindOne(ctx, Collection, filter, &m); err != nil {
		return models.MenuItem{}, err
	}
	return m, nil
}
