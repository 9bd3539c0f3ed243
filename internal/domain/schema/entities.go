// internal/domain/schema/entities.go
package schema

// User is the stored shape of usuarios. email and userName are both optional
// here; the rule that at least one is present lives in the users store.
var User = Schema{
	Entity: "usuarios",
	Fields: []Field{
		{Name: "id", Type: Number, Required: true},
		{Name: "email", Type: String},
		{Name: "userName", Type: String},
		{Name: "pass", Type: String, Required: true},
		{Name: "nome", Type: String, Required: true},
		{Name: "roles", Type: Array, Required: true, Of: String},
		{Name: "ativo", Type: Boolean, Required: true},
		{Name: "perfil", Type: String},
		{Name: "matricula", Type: String},
		{Name: "ra", Type: String},
		{Name: "dataNascimento", Type: Date},
		{Name: "formacao", Type: String},
		{Name: "experiencia", Type: String},
		{Name: "especialidade", Type: String},
		{Name: "responsaveis", Type: String},
		{Name: "extra", Type: Object},
		{Name: "__new", Type: Date, Required: true},
		{Name: "__editado", Type: Date},
	},
}

// Menu is the stored shape of menu.
var Menu = Schema{
	Entity: "menu",
	Fields: []Field{
		{Name: "id", Type: Number},
		{Name: "title", Type: String, Required: true},
		{Name: "roles", Type: String, Required: true},
		{Name: "menusItensArray", Type: Array, Of: Object},
		{Name: "ativo", Type: Boolean},
		{Name: "isDeleted", Type: Boolean},
		{Name: "__new", Type: Date},
		{Name: "__editado", Type: Date},
	},
}

// MenuItem is the stored shape of menuItens.
var MenuItem = Schema{
	Entity: "menuItens",
	Fields: []Field{
		{Name: "id", Type: Number},
		{Name: "title", Type: String, Required: true},
		{Name: "iconName", Type: String},
		{Name: "path", Type: String, Required: true},
		{Name: "props", Type: Object},
		{Name: "name", Type: String},
		{Name: "roles", Type: String},
		{Name: "parentId", Type: Number},
		{Name: "isDeleted", Type: Boolean},
		{Name: "__new", Type: Date},
		{Name: "__editado", Type: Date},
	},
}

// Config is the stored shape of configuracoes.
var Config = Schema{
	Entity: "configuracoes",
	Fields: []Field{
		{Name: "id", Type: Number, Required: true},
		{Name: "nome", Type: String, Required: true},
		{Name: "tipo", Type: String, Required: true},
		{Name: "valor", Type: Object, Required: true},
		{Name: "ativo", Type: Boolean, Required: true},
		{Name: "__new", Type: Date, Required: true},
		{Name: "__editado", Type: Date},
	},
}

// AdminLog is the stored shape of admin_log.
var AdminLog = Schema{
	Entity: "admin_log",
	Fields: []Field{
		{Name: "id", Type: Number, Required: true},
		{Name: "adminId", Type: Number},
		{Name: "adminUserName", Type: String},
		{Name: "adminRoles", Type: Array, Of: String},
		{Name: "action", Type: String, Required: true},
		{Name: "entity", Type: String, Required: true},
		{Name: "entityId", Type: String},
		{Name: "method", Type: String, Required: true},
		{Name: "endpoint", Type: String, Required: true},
		{Name: "statusCode", Type: Number},
		{Name: "ip", Type: String},
		{Name: "userAgent", Type: String},
		{Name: "request", Type: Object},
		{Name: "durationMs", Type: Number},
		{Name: "isDeleted", Type: Boolean},
		{Name: "__new", Type: Date, Required: true},
		{Name: "__editado", Type: Date},
	},
}

// All lists every declared schema, in the order collections are ensured.
func All() []Schema {
	return []Schema{User, Menu, MenuItem, Config, AdminLog}
}
