// internal/app/store/users/userstore.go
package userstore

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
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// Collection is the users collection name.
const Collection = "usuarios"

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// Status filters for List.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusAll      = "all"
)

var (
	// ErrDuplicateUser matches every DuplicateUserError.
	ErrDuplicateUser = errors.New("usuário duplicado")

	// ErrNotModified is returned when a status change matched but changed nothing.
	ErrNotModified = errors.New("nenhuma alteração foi feita")

	// ErrBadCredentials is returned by Authenticate for an unknown user or a
	// wrong password.
	ErrBadCredentials = errors.New("credenciais inválidas")
)

// DuplicateUserError reports which unique field collided.
type DuplicateUserError struct {
	Field string // "userName" or "email"
	Value string
	Other bool // raised by an update against another user
}

func (e *DuplicateUserError) Error() string {
	if e.Other {
		return fmt.Sprintf("Já existe outro usuário com esse %s: %s", e.Field, e.Value)
	}
	return fmt.Sprintf("Já existe um usuário com esse %s: %s", e.Field, e.Value)
}

// Is lets errors.Is match both ErrDuplicateUser and apperr.ErrDuplicate.
func (e *DuplicateUserError) Is(target error) bool {
	return target == ErrDuplicateUser || target == apperr.ErrDuplicate
}

// Store provides access to the usuarios collection.
type Store struct {
	g   *gateway.Gateway
	ids *seqid.Allocator
}

// New creates a user store.
func New(g *gateway.Gateway, ids *seqid.Allocator) *Store {
	return &Store{g: g, ids: ids}
}

// Input carries the writable user fields. Nil means "not sent". For the
// optional profile strings an empty value clears the field.
type Input struct {
	Email    *string
	UserName *string
	Senha    *string
	Nome     *string
	Roles    []string
	Ativo    *bool

	Perfil          *string
	Matricula       *string
	RA              *string
	DataNascimento  *time.Time
	ClearNascimento bool // set dataNascimento to null when DataNascimento is nil
	Formacao        *string
	Experiencia     *string
	Especialidade   *string
	Responsaveis    *string
	Extra           map[string]any
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func short(s string, n int) bool {
	return s != "" && utf8.RuneCountInString(s) < n
}

// rules returns every violated request rule. On update only the length
// rules of the fields sent apply.
func (in Input) rules(update bool) []string {
	var msgs []string
	if !update {
		if trimmed(in.Email) == "" && trimmed(in.UserName) == "" {
			msgs = append(msgs, "email ou userName é obrigatório")
		}
		if trimmed(in.Senha) == "" {
			msgs = append(msgs, "senha é obrigatória")
		}
		if trimmed(in.Nome) == "" {
			msgs = append(msgs, "nome é obrigatório")
		}
		if len(models.NewRoleSet(in.Roles...)) == 0 {
			msgs = append(msgs, "roles é obrigatório")
		}
	}
	if in.Senha != nil && *in.Senha != "" && utf8.RuneCountInString(*in.Senha) < 6 {
		msgs = append(msgs, "senha deve ter pelo menos 6 caracteres")
	}
	if short(trimmed(in.UserName), 3) {
		msgs = append(msgs, "userName deve ter pelo menos 3 caracteres")
	}
	if short(trimmed(in.Nome), 3) {
		msgs = append(msgs, "nome deve ter pelo menos 3 caracteres")
	}
	return msgs
}

// HashPassword hashes pass with BcryptCost. Values that already look like a
// bcrypt hash are returned unchanged.
func HashPassword(pass string) (string, error) {
	if strings.HasPrefix(pass, "$2a$") || strings.HasPrefix(pass, "$2b$") {
		return pass, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pass), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether pass matches hash.
func CheckPassword(hash, pass string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)) == nil
}

func optional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// deriveLogin fills whichever of userName and email was left out: the
// userName defaults to the email's local part, the email to
// <userName>@example.com.
func deriveLogin(email, userName string) (string, string) {
	switch {
	case userName != "" && email == "":
		return userName + "@example.com", userName
	case userName == "" && email != "":
		local, _, _ := strings.Cut(email, "@")
		return email, local
	}
	return email, userName
}

// GetByID loads a user by numeric id regardless of status.
func (s *Store) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	if err := s.g.FindByID(ctx, Collection, id, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetActiveByID loads an active user by numeric id.
func (s *Store) GetActiveByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	if err := s.g.FindOne(ctx, Collection, bson.M{"id": id, "ativo": true}, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindActiveByLogin finds an active user whose userName or email is login.
func (s *Store) FindActiveByLogin(ctx context.Context, login string) (models.User, error) {
	login = strings.TrimSpace(login)
	var u models.User
	err := s.g.FindOne(ctx, Collection, bson.M{
		"$or":   bson.A{bson.M{"userName": login}, bson.M{"email": login}},
		"ativo": true,
	}, &u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Authenticate returns the active user matching login whose password is pass.
func (s *Store) Authenticate(ctx context.Context, login, pass string) (models.User, error) {
	u, err := s.FindActiveByLogin(ctx, login)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, ErrBadCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !CheckPassword(u.Pass, pass) {
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}

// ListFilter narrows List.
type ListFilter struct {
	Status string // active (default), inactive or all
	Role   string // "" or "all" for any
	Search string // nome prefix, matched against the folded name
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	switch f.Status {
	case StatusAll:
	case StatusInactive:
		q["ativo"] = false
	default:
		q["ativo"] = true
	}
	if r := strings.TrimSpace(f.Role); r != "" && r != "all" {
		q["roles"] = bson.M{"$in": bson.A{r}}
	}
	if lo, hi := text.PrefixRange(f.Search); lo != "" {
		q["nomeCI"] = bson.M{"$gte": lo, "$lt": hi}
	}
	return q
}

// List returns one page of users plus the total matching f.
func (s *Store) List(ctx context.Context, f ListFilter, skip, limit int64) ([]models.User, int64, error) {
	q := f.query()
	var (
		users []models.User
		total int64
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.g.Find(ectx, Collection, q, gateway.FindOptions{Skip: skip, Limit: limit}, &users)
	})
	eg.Go(func() error {
		n, err := s.g.Count(ectx, Collection, q)
		total = n
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, total, nil
}

// exists reports whether another user already holds value in field.
func (s *Store) exists(ctx context.Context, field, value string, excludeID int64) (bool, error) {
	q := bson.M{field: value}
	if excludeID != 0 {
		q["id"] = bson.M{"$ne": excludeID}
	}
	n, err := s.g.Count(ctx, Collection, q)
	return n > 0, err
}

func (s *Store) checkUnique(ctx context.Context, email, userName string, excludeID int64) error {
	if userName != "" {
		dup, err := s.exists(ctx, "userName", userName, excludeID)
		if err != nil {
			return err
		}
		if dup {
			return &DuplicateUserError{Field: "userName", Value: userName, Other: excludeID != 0}
		}
	}
	if email != "" {
		dup, err := s.exists(ctx, "email", email, excludeID)
		if err != nil {
			return err
		}
		if dup {
			return &DuplicateUserError{Field: "email", Value: email, Other: excludeID != 0}
		}
	}
	return nil
}

// Create validates in, hashes the password and inserts the user with audit.
// userName and email must not be taken by any user, active or not.
func (s *Store) Create(ctx context.Context, in Input) (models.User, error) {
	if msgs := in.rules(false); len(msgs) > 0 {
		return models.User{}, apperr.Invalid(msgs...)
	}

	email, userName := deriveLogin(trimmed(in.Email), trimmed(in.UserName))
	if err := s.checkUnique(ctx, email, userName, 0); err != nil {
		return models.User{}, err
	}

	hash, err := HashPassword(*in.Senha)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		Email:          email,
		UserName:       userName,
		Pass:           hash,
		Nome:           trimmed(in.Nome),
		Roles:          []string(models.NewRoleSet(in.Roles...)),
		Ativo:          true,
		Perfil:         optional(in.Perfil),
		Matricula:      optional(in.Matricula),
		RA:             optional(in.RA),
		DataNascimento: in.DataNascimento,
		Formacao:       optional(in.Formacao),
		Experiencia:    optional(in.Experiencia),
		Especialidade:  optional(in.Especialidade),
		Responsaveis:   optional(in.Responsaveis),
		Extra:          in.Extra,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	u.NomeCI = text.Fold(u.Nome)
	if in.Ativo != nil {
		u.Ativo = *in.Ativo
	}
	return s.Insert(ctx, u, true)
}

// Insert writes u after the schema check, allocating its id. Pass must
// already be hashed; callers outside Create use it for seeding.
func (s *Store) Insert(ctx context.Context, u models.User, withAudit bool) (models.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
		u.UpdatedAt = u.CreatedAt
	}
	if u.NomeCI == "" {
		u.NomeCI = text.Fold(u.Nome)
	}
	res, err := schema.User.ValidateValue(u)
	if err != nil {
		return models.User{}, err
	}
	if !res.IsValid {
		return models.User{}, apperr.Invalid(res.Errors...)
	}

	id, _, err := s.ids.Insert(ctx, Collection, func(id int64) any {
		u.ID = id
		return u
	}, withAudit, seqid.DefaultAttempts)
	if err != nil {
		var se *apperr.StorageError
		if errors.As(err, &se) && wafflemongo.IsDup(se.Err) {
			// Lost a race with a concurrent create; the partial unique
			// indexes caught it.
			if strings.Contains(se.Err.Error(), "email") {
				return models.User{}, &DuplicateUserError{Field: "email", Value: u.Email}
			}
			return models.User{}, &DuplicateUserError{Field: "userName", Value: u.UserName}
		}
		return models.User{}, err
	}
	u.ID = id
	return u, nil
}

// Update applies the sent fields to user id, inactive users included. It
// reports whether anything changed.
func (s *Store) Update(ctx context.Context, id int64, in Input) (models.User, bool, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.User{}, false, err
	}
	if msgs := in.rules(true); len(msgs) > 0 {
		return models.User{}, false, apperr.Invalid(msgs...)
	}
	if err := s.checkUnique(ctx, trimmed(in.Email), trimmed(in.UserName), id); err != nil {
		return models.User{}, false, err
	}

	set := bson.M{}
	if in.UserName != nil {
		set["userName"] = trimmed(in.UserName)
	}
	if in.Email != nil {
		set["email"] = trimmed(in.Email)
	}
	if in.Nome != nil {
		set["nome"] = trimmed(in.Nome)
		set["nomeCI"] = text.Fold(trimmed(in.Nome))
	}
	if in.Roles != nil {
		roles := models.NewRoleSet(in.Roles...)
		if len(roles) == 0 {
			return models.User{}, false, apperr.Invalid("roles é obrigatório")
		}
		set["roles"] = []string(roles)
	}
	if in.Ativo != nil {
		set["ativo"] = *in.Ativo
	}
	for field, v := range map[string]*string{
		"perfil":        in.Perfil,
		"matricula":     in.Matricula,
		"ra":            in.RA,
		"formacao":      in.Formacao,
		"experiencia":   in.Experiencia,
		"especialidade": in.Especialidade,
		"responsaveis":  in.Responsaveis,
	} {
		if v != nil {
			set[field] = optional(v)
		}
	}
	if in.DataNascimento != nil {
		set["dataNascimento"] = *in.DataNascimento
	} else if in.ClearNascimento {
		set["dataNascimento"] = nil
	}
	if in.Extra != nil {
		set["extra"] = in.Extra
	}
	if in.Senha != nil && *in.Senha != "" {
		hash, err := HashPassword(*in.Senha)
		if err != nil {
			return models.User{}, false, err
		}
		set["pass"] = hash
	}
	if len(set) == 0 {
		return existing, false, nil
	}

	rec, err := schema.ToRecord(set)
	if err != nil {
		return models.User{}, false, err
	}
	if res := schema.User.ValidatePartial(rec); !res.IsValid {
		return models.User{}, false, apperr.Invalid(res.Errors...)
	}

	set["__editado"] = time.Now().UTC()
	res, err := s.g.Update(ctx, Collection, bson.M{"id": id}, set)
	if err != nil {
		return models.User{}, false, err
	}
	if res.ModifiedCount == 0 {
		return existing, false, nil
	}
	fresh, err := s.GetByID(ctx, id)
	if err != nil {
		return models.User{}, false, err
	}
	return fresh, true, nil
}

// ChangePassword replaces the password of the active user userName after
// checking oldPass. The write is mirrored to the audit collection.
func (s *Store) ChangePassword(ctx context.Context, userName, oldPass, newPass string) error {
	var msgs []string
	if strings.TrimSpace(userName) == "" {
		msgs = append(msgs, "userName é obrigatório")
	}
	if oldPass == "" {
		msgs = append(msgs, "oldPass é obrigatório")
	}
	if utf8.RuneCountInString(newPass) < 6 {
		msgs = append(msgs, "newPass deve ter pelo menos 6 caracteres")
	}
	if len(msgs) > 0 {
		return apperr.Invalid(msgs...)
	}

	u, err := s.Authenticate(ctx, userName, oldPass)
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPass)
	if err != nil {
		return err
	}
	_, err = s.g.UpdateWithAudit(ctx, Collection, bson.M{"id": u.ID}, bson.M{"$set": bson.M{"pass": hash}}, true)
	return err
}

// SetActive flips the ativo flag of user id.
func (s *Store) SetActive(ctx context.Context, id int64, active bool) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	res, err := s.g.Update(ctx, Collection, bson.M{"id": id}, bson.M{
		"ativo":     active,
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

// Deactivate marks user id inactive. Users are never removed.
func (s *Store) Deactivate(ctx context.Context, id int64) error { return s.SetActive(ctx, id, false) }

// Reactivate marks user id active again.
func (s *Store) Reactivate(ctx context.Context, id int64) error { return s.SetActive(ctx, id, true) }
