// internal/domain/models/adminlog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin log actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
	ActionRead   = "READ"
)

// AdminRequest is the sanitized snapshot of the request that caused an
// admin action. Sensitive keys are removed before it is stored.
type AdminRequest struct {
	Params map[string]any `bson:"params" json:"params"`
	Query  map[string]any `bson:"query" json:"query"`
	Body   any            `bson:"body" json:"body"`
}

// AdminLog records one mutating request performed by an admin (collection admin_log).
type AdminLog struct {
	MongoID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID            int64              `bson:"id" json:"id"`
	AdminID       int64              `bson:"adminId" json:"adminId"`
	AdminUserName string             `bson:"adminUserName" json:"adminUserName"`
	AdminRoles    []string           `bson:"adminRoles" json:"adminRoles"`
	Action        string             `bson:"action" json:"action"`
	Entity        string             `bson:"entity" json:"entity"`
	EntityID      string             `bson:"entityId,omitempty" json:"entityId,omitempty"`
	Method        string             `bson:"method" json:"method"`
	Endpoint      string             `bson:"endpoint" json:"endpoint"`
	StatusCode    int                `bson:"statusCode" json:"statusCode"`
	IP            string             `bson:"ip" json:"ip"`
	UserAgent     string             `bson:"userAgent" json:"userAgent"`
	RequestID     string             `bson:"requestId,omitempty" json:"requestId,omitempty"`
	Request       AdminRequest       `bson:"request" json:"request"`
	DurationMs    int64              `bson:"durationMs" json:"durationMs"`
	IsDeleted     bool               `bson:"isDeleted" json:"isDeleted"`
	CreatedAt     time.Time          `bson:"__new" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"__editado" json:"updatedAt"`
}
