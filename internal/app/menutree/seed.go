// internal/app/menutree/seed.go
package menutree

import "github.com/dalemusser/lcmsadmin/internal/domain/models"

// DefaultMenuRoles are the roles ProvisionMenus builds a menu for when the
// caller does not name any.
var DefaultMenuRoles = []string{models.RoleAdmin, models.RoleConteudo, models.RoleDemo, models.RoleSaebAvaliacao}

var (
	allRoles      = []string{models.RoleAdmin, models.RoleConteudo, models.RoleDemo, models.RoleSaebAvaliacao}
	adminOnly     = []string{models.RoleAdmin}
	adminConteudo = []string{models.RoleAdmin, models.RoleConteudo}
	adminSaeb     = []string{models.RoleAdmin, models.RoleSaebAvaliacao}
)

func leaf(title, path, name string, roles []string) SpecNode {
	return SpecNode{Title: title, Path: path, Name: name, Roles: roles}
}

func dash(title, name string, roles []string) SpecNode {
	return leaf(title, "/dashboard/"+name, name, roles)
}

func nivel(title, curso string) SpecNode {
	return SpecNode{
		Title: title,
		Path:  "/dashboard/painelaulas/" + curso,
		Name:  "Nivel",
		Props: map[string]any{"curso": curso},
		Roles: allRoles,
	}
}

// Seed returns the default navigation of the platform. Each call returns a
// fresh tree.
func Seed() []SpecNode {
	atividades := []SpecNode{
		dash("Minhas Atividades", "MinhasAtividades", adminOnly),
		dash("Teste Editor Quill", "EditorQuill", adminOnly),
	}

	crud := []SpecNode{
		dash("Cursos", "CrudCurso", adminOnly),
		leaf("CRUD Disciplinas", "/dashboard/CrudDisc", "CrudDisciplina", adminOnly),
		leaf("CRUD Módulos", "/dashboard/CrudMod", "CrudModulo", adminOnly),
		dash("CRUD Aulas", "CrudAula", adminOnly),
		dash("CRUD Páginas", "CrudPagina", adminOnly),
		dash("Libera Aula no Módulo", "ModuloAulaLibera", adminOnly),
	}

	testes := []SpecNode{
		dash("Mostra Questão", "MostraQuestao", adminOnly),
		dash("Tela Questão Edit", "TelaEdicaoQuestao", adminOnly),
		{Title: "Teste Vídeos - VIMEO", IconName: "busca", Path: "/dashboard/TesteVideos", Name: "EscolherVimeo", Roles: adminOnly},
		dash("Consulta Mista Tutor", "ConsultaMistaTutor", adminOnly),
	}

	return []SpecNode{
		leaf("Início", "inicio", "Historico_ultimos", allRoles),
		leaf("", "/dashboard/Sair", "Sair", allRoles),
		leaf("Teste Geral", "TesteGeral", "TesteGeral", adminOnly),
		dash("Atividades Explorer", "AtividadeExplorer", adminConteudo),
		{Title: "Atividades", Roles: adminOnly, Children: atividades},
		dash("SAEB Descritores", "TelaDescritores", adminSaeb),
		dash("Avaliação Exemplo", "VisualizarPDF", adminSaeb),
		dash("Gerar Item Antigo Axios", "Consulta", adminOnly),
		dash("Gerar Item 'Sem API' Frontend", "AssistGerarItem", adminOnly),
		dash("Gerar Item API", "AssistGerarItemAPI", adminSaeb),
		dash("Tutor Matemática 'Sem API'", "ConsultaTutor", adminOnly),
		dash("Tutor Matemática", "TutorMatematica", adminSaeb),
		dash("Tutor Página", "IaTutorPagina", adminOnly),
		dash("Análise Página NOVO", "IaAnalisePagina", adminOnly),
		dash("IA Página BATCH 1", "IaAnalisePaginaBatch", adminOnly),
		dash("IA Página BATCH 2", "IaAnalisePaginaBatchFase2", adminOnly),
		dash("Análise Pagina Teste", "IaAnalisePaginaTeste", adminOnly),
		{Title: "CRUD", IconName: "painel_aulas", Roles: adminOnly, Children: crud},
		{Title: "Buscar Página", IconName: "busca", Path: "/dashboard/PaginaBuscar", Name: "PaginaBuscar",
			Roles: []string{models.RoleAdmin, models.RoleConteudo, models.RoleDemo}},
		{Title: "Histórico", IconName: "historico", Path: "/dashboard/Historico", Name: "Historico",
			Roles: []string{models.RoleAdmin, models.RoleConteudo, models.RoleDemo}},
		{Title: "Navega nas Questões", IconName: "ic_analytics", Path: "/dashboard/NavegaQuestoes", Name: "NavegaQuestoes",
			Roles: []string{models.RoleAdmin, models.RoleConteudo, models.RoleSaebAvaliacao}},
		{
			Title:    "Painel Aulas",
			IconName: "painel_aulas",
			Name:     "PainelAulas",
			Roles:    allRoles,
			Children: []SpecNode{
				nivel("EF Anos Iniciais", "F1"),
				nivel("EF Anos Finais", "F2"),
				nivel("Ens. Médio", "EM"),
			},
		},
		{Title: "Testes Desenvolvimento", Roles: adminOnly, Children: testes},
		dash("Editor de Fórmulas", "EditorFormulas", adminConteudo),
		dash("Exemplo de Pílula", "Pilula", adminConteudo),
	}
}
