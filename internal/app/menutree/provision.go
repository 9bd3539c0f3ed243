// internal/app/menutree/provision.go
package menutree

import (
	"context"
	"errors"

	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"go.uber.org/zap"
)

// ItemStore is the part of the menu item store provisioning needs.
type ItemStore interface {
	FindExisting(ctx context.Context, path, title, name string) (models.MenuItem, error)
	Insert(ctx context.Context, m models.MenuItem, withAudit bool) (models.MenuItem, error)
}

// Lookup maps declared leaves to persisted menu items.
type Lookup struct {
	byName map[string]models.MenuItem
	byPath map[string]models.MenuItem
}

func newLookup() Lookup {
	return Lookup{
		byName: make(map[string]models.MenuItem),
		byPath: make(map[string]models.MenuItem),
	}
}

func (l Lookup) put(leaf SpecNode, item models.MenuItem) {
	l.byName[leaf.Name] = item
	if leaf.Path != "" {
		l.byPath[leaf.Path] = item
	}
}

// ByName returns the name to item mapping. When several leaves share a
// name the last one provisioned wins; use Resolve to tell them apart.
func (l Lookup) ByName() map[string]models.MenuItem {
	out := make(map[string]models.MenuItem, len(l.byName))
	for k, v := range l.byName {
		out[k] = v
	}
	return out
}

// Resolve returns the item provisioned for leaf. Leaves with a path are
// resolved by path only, so "Nivel" entries for different courses stay apart.
func (l Lookup) Resolve(leaf SpecNode) (models.MenuItem, bool) {
	if leaf.Path != "" {
		m, ok := l.byPath[leaf.Path]
		return m, ok
	}
	m, ok := l.byName[leaf.Name]
	return m, ok
}

// Len is the number of distinct names resolved.
func (l Lookup) Len() int { return len(l.byName) }

// Provisioner creates or reuses the menu items a declared tree names.
type Provisioner struct {
	items ItemStore
	log   *zap.Logger
}

// NewProvisioner returns a Provisioner writing through items.
func NewProvisioner(items ItemStore, log *zap.Logger) *Provisioner {
	return &Provisioner{items: items, log: log}
}

// Provision ensures every leaf of tree has a persisted MenuItem. Existing
// items are matched by path, then title, then name. New items are inserted
// without an audit row. A leaf that fails is logged and left out of the
// lookup; the run continues.
func (p *Provisioner) Provision(ctx context.Context, tree []SpecNode) Lookup {
	lookup := newLookup()
	for _, leaf := range ExtractLeaves(tree) {
		item, err := p.ensure(ctx, leaf)
		if err != nil {
			p.log.Warn("menu item provisioning failed",
				zap.String("name", leaf.Name),
				zap.String("path", leaf.Path),
				zap.Error(err))
			continue
		}
		lookup.put(leaf, item)
	}
	return lookup
}

func (p *Provisioner) ensure(ctx context.Context, leaf SpecNode) (models.MenuItem, error) {
	existing, err := p.items.FindExisting(ctx, leaf.Path, leaf.Title, leaf.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return models.MenuItem{}, err
	}

	ativo := true
	props := leaf.Props
	if props == nil {
		props = map[string]any{}
	}
	return p.items.Insert(ctx, models.MenuItem{
		Title:    leaf.Title,
		Name:     leaf.Name,
		Path:     leaf.Path,
		IconName: leaf.IconName,
		Roles:    leaf.RoleSet(),
		Props:    props,
		Ativo:    &ativo,
	}, false)
}
