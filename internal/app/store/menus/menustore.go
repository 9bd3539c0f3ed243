// internal/app/store/menus/menustore.go
package menustore

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

// Collection is the menus collection name.
const Collection = "menu"

var (
	// ErrDuplicateMenu is returned when a non-deleted menu with the same title
	// and an overlapping roles string already exists.
	ErrDuplicateMenu = apperr.Duplicate("Já existe um menu cadastrado para este cargo")

	// ErrNotModified is returned when a delete matched but changed nothing.
	ErrNotModified = errors.New("erro ao deletar menu")
)

// Store provides access to the menu collection.
type Store struct {
	g   *gateway.Gateway
	ids *seqid.Allocator
}

// New creates a menu store.
func New(g *gateway.Gateway, ids *seqid.Allocator) *Store {
	return &Store{g: g, ids: ids}
}

// Patch lists the fields an update may change. Nil means "leave as is".
type Patch struct {
	Title           *string
	Roles           *models.RoleSet
	MenusItensArray *[]models.MenuNode
	Ativo           *bool
}

func tooShort(title string) bool {
	return title != "" && utf8.RuneCountInString(title) < 3
}

// Create validates and inserts a menu with audit. ativo defaults to true.
func (s *Store) Create(ctx context.Context, title string, roles models.RoleSet, tree []models.MenuNode, ativo *bool) (models.Menu, error) {
	title = strings.TrimSpace(title)
	var msgs []string
	if title == "" {
		msgs = append(msgs, "title é obrigatório")
	}
	if len(roles) == 0 {
		msgs = append(msgs, "roles é obrigatório")
	}
	if tooShort(title) {
		msgs = append(msgs, "title deve ter pelo menos 3 caracteres")
	}
	if len(msgs) > 0 {
		return models.Menu{}, apperr.Invalid(msgs...)
	}

	dup, err := s.hasDuplicate(ctx, title, roles, 0)
	if err != nil {
		return models.Menu{}, err
	}
	if dup {
		return models.Menu{}, ErrDuplicateMenu
	}

	m := models.Menu{
		Title:           title,
		Roles:           roles,
		MenusItensArray: tree,
		Ativo:           true,
	}
	if ativo != nil {
		m.Ativo = *ativo
	}
	return s.Insert(ctx, m, true)
}

// Insert allocates an id, stamps timestamps and writes m after the schema
// check. It skips the title rules and the duplicate check; provisioning
// uses it directly.
func (s *Store) Insert(ctx context.Context, m models.Menu, withAudit bool) (models.Menu, error) {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.MenusItensArray == nil {
		m.MenusItensArray = []models.MenuNode{}
	}

	res, err := schema.Menu.ValidateValue(m)
	if err != nil {
		return models.Menu{}, err
	}
	if !res.IsValid {
		return models.Menu{}, apperr.Invalid(res.Errors...)
	}

	id, _, err := s.ids.Insert(ctx, Collection, func(id int64) any {
		m.ID = id
		return m
	}, withAudit, seqid.DefaultAttempts)
	if err != nil {
		return models.Menu{}, err
	}
	m.ID = id
	return m, nil
}

// hasDuplicate reports whether another non-deleted menu has the same title
// and a roles string that overlaps roles by substring in either direction.
func (s *Store) hasDuplicate(ctx context.Context, title string, roles models.RoleSet, excludeID int64) (bool, error) {
	filter := bson.M{
		"title":     title,
		"isDeleted": bson.M{"$ne": true},
	}
	if excludeID != 0 {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	var same []struct {
		Roles models.RoleSet `bson:"roles"`
	}
	if err := s.g.Find(ctx, Collection, filter, gateway.FindOptions{}, &same); err != nil {
		return false, err
	}
	want := roles.Encode()
	for _, m := range same {
		have := m.Roles.Encode()
		if models.RoleTokenMatches(have, want) || models.RoleTokenMatches(want, have) {
			return true, nil
		}
	}
	return false, nil
}

// GetByID loads a non-deleted menu by id.
func (s *Store) GetByID(ctx context.Context, id int64) (models.Menu, error) {
	var m models.Menu
	q := gateway.NotDeleted()
	q["id"] = id
	if err := s.g.FindOne(ctx, Collection, q, &m); err != nil {
		return models.Menu{}, err
	}
	return m, nil
}

// List returns one page of non-deleted menus plus the total.
func (s *Store) List(ctx context.Context, skip, limit int64) ([]models.Menu, int64, error) {
	var (
		menus []models.Menu
		total int64
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.g.Find(ectx, Collection, gateway.NotDeleted(), gateway.FindOptions{Skip: skip, Limit: limit}, &menus)
	})
	eg.Go(func() error {
		n, err := s.g.CountAll(ectx, Collection, nil)
		total = n
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	if menus == nil {
		menus = []models.Menu{}
	}
	return menus, total, nil
}

// UpdateByID applies p to menu id. When title or roles change, the
// duplicate check runs again against every other menu using the values the
// menu will have after the update. It reports whether anything changed.
func (s *Store) UpdateByID(ctx context.Context, id int64, p Patch) (models.Menu, bool, error) {
	var existing models.Menu
	if err := s.g.FindByID(ctx, Collection, id, &existing); err != nil {
		return models.Menu{}, false, err
	}

	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return models.Menu{}, false, apperr.Invalid("title é obrigatório")
		}
		if tooShort(t) {
			return models.Menu{}, false, apperr.Invalid("title deve ter pelo menos 3 caracteres")
		}
	}

	if p.Title != nil || p.Roles != nil {
		title, roles := existing.Title, existing.Roles
		if p.Title != nil {
			title = strings.TrimSpace(*p.Title)
		}
		if p.Roles != nil {
			roles = *p.Roles
		}
		dup, err := s.hasDuplicate(ctx, title, roles, id)
		if err != nil {
			return models.Menu{}, false, err
		}
		if dup {
			return models.Menu{}, false, ErrDuplicateMenu
		}
	}

	set := bson.M{}
	if p.Title != nil {
		set["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Roles != nil {
		set["roles"] = *p.Roles
	}
	if p.MenusItensArray != nil {
		tree := *p.MenusItensArray
		if tree == nil {
			tree = []models.MenuNode{}
		}
		set["menusItensArray"] = tree
	}
	if p.Ativo != nil {
		set["ativo"] = *p.Ativo
	}
	if len(set) == 0 {
		return existing, false, nil
	}

	rec, err := schema.ToRecord(set)
	if err != nil {
		return models.Menu{}, false, err
	}
	if res := schema.Menu.ValidatePartial(rec); !res.IsValid {
		return models.Menu{}, false, apperr.Invalid(res.Errors...)
	}

	res, err := s.g.UpdateWithAudit(ctx, Collection, bson.M{"id": id}, bson.M{"$set": set}, true)
	if err != nil {
		return models.Menu{}, false, err
	}
	if res.ModifiedCount == 0 {
		return existing, false, nil
	}

	var fresh models.Menu
	if err := s.g.FindByID(ctx, Collection, id, &fresh); err != nil {
		return models.Menu{}, false, err
	}
	return fresh, true, nil
}

// GetByRole returns the first active, non-deleted menu whose roles string
// contains role, case-insensitively. This is substring containment, so
// "admin" also matches "superadmin".
func (s *Store) GetByRole(ctx context.Context, role string) (models.Menu, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return models.Menu{}, apperr.ErrNotFound
	}
	q := gateway.NotDeleted()
	q["ativo"] = true
	q["roles"] = models.RoleTokenPattern(role)

	var menus []models.Menu
	if err := s.g.Find(ctx, Collection, q, gateway.FindOptions{}, &menus); err != nil {
		return models.Menu{}, err
	}
	for _, m := range menus {
		if models.RoleTokenMatches(m.Roles.Encode(), role) {
			return m, nil
		}
	}
	return models.Menu{}, apperr.ErrNotFound
}

// GetByPerfil returns every non-deleted menu whose roles list holds perfil
// as a whole comma-separated token.
func (s *Store) GetByPerfil(ctx context.Context, perfil string) ([]models.Menu, error) {
	q := gateway.NotDeleted()
	q["roles"] = models.RoleTokenExactPattern(strings.TrimSpace(perfil))

	var menus []models.Menu
	if err := s.g.Find(ctx, Collection, q, gateway.FindOptions{}, &menus); err != nil {
		return nil, err
	}
	if menus == nil {
		menus = []models.Menu{}
	}
	return menus, nil
}

// ActiveForRole returns the active menu whose roles string is exactly role.
func (s *Store) ActiveForRole(ctx context.Context, role string) (models.Menu, error) {
	var m models.Menu
	if err := s.g.FindOne(ctx, Collection, bson.M{"roles": role, "ativo": true}, &m); err != nil {
		return models.Menu{}, err
	}
	return m, nil
}

// SoftDelete flags menu id as deleted. Its tree is kept.
func (s *Store) SoftDelete(ctx context.Context, id int64) error {
	var existing models.Menu
	if err := s.g.FindByID(ctx, Collection, id, &existing); err != nil {
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
