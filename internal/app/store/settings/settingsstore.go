// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"fmt"
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

// Collection is the configs collection name.
const Collection = "configuracoes"

// MenuColorsName is the nome given to a newly created menu_colors config.
const MenuColorsName = "Cores do Menu por Perfil"

// ErrNotModified is returned when a deactivation matched but changed nothing.
var ErrNotModified = errors.New("erro ao deletar configuração")

// Store provides access to the configuracoes collection.
type Store struct {
	g   *gateway.Gateway
	ids *seqid.Allocator
}

// New creates a config store.
func New(g *gateway.Gateway, ids *seqid.Allocator) *Store {
	return &Store{g: g, ids: ids}
}

// Input carries the writable config fields. Nil means "not sent".
type Input struct {
	Nome  *string
	Tipo  *string
	Valor map[string]any
	Ativo *bool
}

func (in Input) rules(update bool) []string {
	var msgs []string
	nome := ""
	if in.Nome != nil {
		nome = strings.TrimSpace(*in.Nome)
	}
	if !update {
		if nome == "" {
			msgs = append(msgs, "nome é obrigatório")
		}
		if in.Tipo == nil || strings.TrimSpace(*in.Tipo) == "" {
			msgs = append(msgs, "tipo é obrigatório")
		}
		if in.Valor == nil {
			msgs = append(msgs, "valor é obrigatório e deve ser um objeto")
		}
	}
	if nome != "" && utf8.RuneCountInString(nome) < 3 {
		msgs = append(msgs, "nome deve ter pelo menos 3 caracteres")
	}
	return msgs
}

// GetByID loads a config by numeric id.
func (s *Store) GetByID(ctx context.Context, id int64) (models.Config, error) {
	var c models.Config
	if err := s.g.FindByID(ctx, Collection, id, &c); err != nil {
		return models.Config{}, err
	}
	return c, nil
}

// List returns one page of configs ordered by id plus the total.
func (s *Store) List(ctx context.Context, skip, limit int64) ([]models.Config, int64, error) {
	var (
		configs []models.Config
		total   int64
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.g.Find(ectx, Collection, nil, gateway.FindOptions{
			Skip: skip, Limit: limit, Sort: bson.D{{Key: "id", Value: 1}},
		}, &configs)
	})
	eg.Go(func() error {
		n, err := s.g.CountAll(ectx, Collection, nil)
		total = n
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	if configs == nil {
		configs = []models.Config{}
	}
	return configs, total, nil
}

// Create validates in and inserts the config with audit.
func (s *Store) Create(ctx context.Context, in Input) (models.Config, error) {
	if msgs := in.rules(false); len(msgs) > 0 {
		return models.Config{}, apperr.Invalid(msgs...)
	}
	c := models.Config{
		Nome:  strings.TrimSpace(*in.Nome),
		Tipo:  strings.TrimSpace(*in.Tipo),
		Valor: in.Valor,
		Ativo: true,
	}
	if in.Ativo != nil {
		c.Ativo = *in.Ativo
	}
	return s.insert(ctx, c)
}

func (s *Store) insert(ctx context.Context, c models.Config) (models.Config, error) {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := schema.Config.ValidateValue(c)
	if err != nil {
		return models.Config{}, err
	}
	if !res.IsValid {
		return models.Config{}, apperr.Invalid(res.Errors...)
	}

	id, _, err := s.ids.Insert(ctx, Collection, func(id int64) any {
		c.ID = id
		return c
	}, true, seqid.DefaultAttempts)
	if err != nil {
		return models.Config{}, err
	}
	c.ID = id
	return c, nil
}

// Update applies the sent fields to config id and reports whether anything
// changed.
func (s *Store) Update(ctx context.Context, id int64, in Input) (models.Config, bool, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Config{}, false, err
	}
	if msgs := in.rules(true); len(msgs) > 0 {
		return models.Config{}, false, apperr.Invalid(msgs...)
	}

	set := bson.M{}
	if in.Nome != nil {
		set["nome"] = strings.TrimSpace(*in.Nome)
	}
	if in.Tipo != nil {
		set["tipo"] = strings.TrimSpace(*in.Tipo)
	}
	if in.Valor != nil {
		set["valor"] = in.Valor
	}
	if in.Ativo != nil {
		set["ativo"] = *in.Ativo
	}
	if len(set) == 0 {
		return existing, false, nil
	}
	set["__editado"] = time.Now().UTC()

	res, err := s.g.Update(ctx, Collection, bson.M{"id": id}, set)
	if err != nil {
		return models.Config{}, false, err
	}
	if res.ModifiedCount == 0 {
		return existing, false, nil
	}
	fresh, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Config{}, false, err
	}
	return fresh, true, nil
}

// Deactivate sets ativo=false on config id. Configs are never removed.
func (s *Store) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	res, err := s.g.Update(ctx, Collection, bson.M{"id": id}, bson.M{
		"ativo":     false,
		"__editado": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotModified
	}
	return nil
}

// MenuColors returns the role colors of the active menu_colors config, or
// the defaults when none is stored.
func (s *Store) MenuColors(ctx context.Context) (map[string]string, error) {
	var c models.Config
	err := s.g.FindOne(ctx, Collection, bson.M{"tipo": models.ConfigTypeMenuColors, "ativo": true}, &c)
	if errors.Is(err, apperr.ErrNotFound) {
		out := make(map[string]string, len(models.DefaultRoleColors))
		for k, v := range models.DefaultRoleColors {
			out[k] = v
		}
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	return c.MenuColors(), nil
}

// ValidateMenuColors checks that every known role has a string color.
func ValidateMenuColors(colors map[string]any) error {
	if colors == nil {
		return apperr.Invalid("Cores são obrigatórias e devem ser um objeto")
	}
	for _, role := range models.KnownRoles {
		if v, ok := colors[role].(string); !ok || v == "" {
			return apperr.Invalid(fmt.Sprintf("Cor inválida para o role: %s", role))
		}
	}
	return nil
}

// SaveMenuColors validates colors and writes them to the menu_colors
// config, creating it on first use. Both paths are audited.
func (s *Store) SaveMenuColors(ctx context.Context, colors map[string]any) (models.Config, error) {
	if err := ValidateMenuColors(colors); err != nil {
		return models.Config{}, err
	}

	var existing models.Config
	err := s.g.FindOne(ctx, Collection, bson.M{"tipo": models.ConfigTypeMenuColors}, &existing)
	if errors.Is(err, apperr.ErrNotFound) {
		return s.insert(ctx, models.Config{
			Nome:  MenuColorsName,
			Tipo:  models.ConfigTypeMenuColors,
			Valor: colors,
			Ativo: true,
		})
	}
	if err != nil {
		return models.Config{}, err
	}

	if _, err := s.g.UpdateWithAudit(ctx, Collection, bson.M{"id": existing.ID},
		bson.M{"$set": bson.M{"valor": colors}}, true); err != nil {
		return models.Config{}, err
	}
	return s.GetByID(ctx, existing.ID)
}
