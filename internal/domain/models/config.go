// internal/domain/models/config.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConfigTypeMenuColors is the tipo of the singleton role-color config.
const ConfigTypeMenuColors = "menu_colors"

// Config is an entry of the configuracoes collection. Valor is an open
// document whose shape depends on Tipo.
type Config struct {
	MongoID   primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID        int64              `bson:"id" json:"id"`
	Nome      string             `bson:"nome" json:"nome"`
	Tipo      string             `bson:"tipo" json:"tipo"`
	Valor     map[string]any     `bson:"valor" json:"valor"`
	Ativo     bool               `bson:"ativo" json:"ativo"`
	CreatedAt time.Time          `bson:"__new" json:"createdAt"`
	UpdatedAt time.Time          `bson:"__editado" json:"updatedAt"`
}

// MenuColors extracts role->color pairs from a menu_colors config,
// ignoring non-string values.
func (c Config) MenuColors() map[string]string {
	out := make(map[string]string, len(c.Valor))
	for k, v := range c.Valor {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
