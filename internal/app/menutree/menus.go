// internal/app/menutree/menus.go
package menutree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// MenuStore is the part of the menu store menu provisioning needs.
type MenuStore interface {
	ActiveForRole(ctx context.Context, role string) (models.Menu, error)
	Insert(ctx context.Context, m models.Menu, withAudit bool) (models.Menu, error)
}

// Report summarizes a ProvisionMenus run.
type Report struct {
	Created []models.Menu `json:"created"`
	Skipped []string      `json:"skipped"`
	Failed  []string      `json:"failed"`
	Items   int           `json:"items"`
}

// MenuProvisioner builds one default menu per role from a declared tree.
type MenuProvisioner struct {
	items *Provisioner
	menus MenuStore
	tree  []SpecNode
	log   *zap.Logger
}

// NewMenuProvisioner returns a MenuProvisioner for tree. A nil tree uses Seed.
func NewMenuProvisioner(items *Provisioner, menus MenuStore, tree []SpecNode, log *zap.Logger) *MenuProvisioner {
	if tree == nil {
		tree = Seed()
	}
	return &MenuProvisioner{items: items, menus: menus, tree: tree, log: log}
}

// MenuTitle is the title given to the default menu of role.
func MenuTitle(role string) string {
	if role == "" {
		return "Menu"
	}
	return "Menu " + strings.ToUpper(role[:1]) + role[1:]
}

// ProvisionMenus creates the default menu for each role that has no active
// menu yet. Items are provisioned once, on the first role that needs them.
// A failing role is logged and skipped; the returned error combines every
// per-role failure.
func (mp *MenuProvisioner) ProvisionMenus(ctx context.Context, roles []string) (Report, error) {
	if len(roles) == 0 {
		roles = DefaultMenuRoles
	}
	rep := Report{Created: []models.Menu{}, Skipped: []string{}, Failed: []string{}}

	var (
		lookup      Lookup
		provisioned bool
		errs        error
	)
	for _, role := range roles {
		_, err := mp.menus.ActiveForRole(ctx, role)
		if err == nil {
			rep.Skipped = append(rep.Skipped, role)
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			mp.fail(&rep, &errs, role, err)
			continue
		}

		if !provisioned {
			lookup = mp.items.Provision(ctx, mp.tree)
			provisioned = true
			rep.Items = lookup.Len()
		}

		m, err := mp.menus.Insert(ctx, models.Menu{
			Title:           MenuTitle(role),
			Roles:           models.NewRoleSet(role),
			MenusItensArray: Build(mp.tree, role, lookup),
			Ativo:           true,
		}, false)
		if err != nil {
			mp.fail(&rep, &errs, role, err)
			continue
		}
		mp.log.Info("default menu created", zap.String("role", role), zap.Int64("id", m.ID))
		rep.Created = append(rep.Created, m)
	}
	return rep, errs
}

func (mp *MenuProvisioner) fail(rep *Report, errs *error, role string, err error) {
	mp.log.Warn("default menu provisioning failed", zap.String("role", role), zap.Error(err))
	rep.Failed = append(rep.Failed, role)
	*errs = multierr.Append(*errs, fmt.Errorf("role %s: %w", role, err))
}
