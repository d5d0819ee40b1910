package produto

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/thebest-sistemas/api/internal/auth"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB, repo Repository) *Handler {
	return &Handler{DB: db, Repository: repo}
}

func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var p Produto
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	p.PerfilID = auth.PerfilID(r.Context())
	if p.Nome == "" {
		http.Error(w, "nome é obrigatório", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Repository.Salvar(h.DB, &p); err != nil {
		http.Error(w, "erro ao salvar produto", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	pagina, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
	if pagina < 1 {
		pagina = 1
	}
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))
	if limite < 1 || limite > 100 {
		limite = 20
	}

	produtos, total, err := h.Repository.Listar(h.DB, auth.PerfilID(r.Context()), pagina, limite, r.URL.Query().Get("busca"))
	if err != nil {
		http.Error(w, "erro ao listar produtos", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"dados":  produtos,
		"total":  total,
		"pagina": pagina,
		"limite": limite,
	})
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, auth.PerfilID(r.Context()), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "produto não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar produto", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(p)
}

func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	perfilID := auth.PerfilID(r.Context())
	atual, err := h.Repository.BuscarPorID(h.DB, perfilID, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "produto não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar produto", http.StatusInternalServerError)
		return
	}

	var p Produto
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	p.ID = atual.ID
	p.PerfilID = perfilID
	for i := range p.Imagens {
		p.Imagens[i].ProdutoID = p.ID
	}
	for i := range p.Variacoes1 {
		p.Variacoes1[i].ProdutoID = p.ID
	}
	for i := range p.Variacoes2 {
		p.Variacoes2[i].ProdutoID = p.ID
	}

	if err := h.Repository.Atualizar(h.DB, &p); err != nil {
		http.Error(w, "erro ao atualizar produto", http.StatusInternalServerError)
		return
	}

	atualizado, err := h.Repository.BuscarPorID(h.DB, perfilID, p.ID)
	if err != nil {
		http.Error(w, "erro ao buscar produto", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(atualizado)
}

func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Deletar(h.DB, auth.PerfilID(r.Context()), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "produto não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao deletar produto", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SalvarGrupo(w http.ResponseWriter, r *http.Request) {
	var g Grupo
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	g.PerfilID = auth.PerfilID(r.Context())
	if g.Nome == "" {
		http.Error(w, "nome é obrigatório", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Repository.SalvarGrupo(h.DB, &g); err != nil {
		http.Error(w, "erro ao salvar grupo", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(g)
}

func (h *Handler) ListarGrupos(w http.ResponseWriter, r *http.Request) {
	grupos, err := h.Repository.ListarGrupos(h.DB, auth.PerfilID(r.Context()))
	if err != nil {
		http.Error(w, "erro ao listar grupos", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(grupos)
}

func (h *Handler) DeletarGrupo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.DeletarGrupo(h.DB, auth.PerfilID(r.Context()), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			http.Error(w, "este registro está em uso", http.StatusConflict)
			return
		}
		http.Error(w, "erro ao deletar grupo", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SalvarSubGrupo(w http.ResponseWriter, r *http.Request) {
	var s SubGrupo
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	s.PerfilID = auth.PerfilID(r.Context())
	if s.Nome == "" || s.GrupoID == 0 {
		http.Error(w, "nome e grupo são obrigatórios", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Repository.SalvarSubGrupo(h.DB, &s); err != nil {
		http.Error(w, "erro ao salvar subgrupo", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(s)
}

func (h *Handler) ListarSubGrupos(w http.ResponseWriter, r *http.Request) {
	grupoID, _ := strconv.Atoi(r.URL.Query().Get("grupoId"))
	subgrupos, err := h.Repository.ListarSubGrupos(h.DB, auth.PerfilID(r.Context()), uint(grupoID))
	if err != nil {
		http.Error(w, "erro ao listar subgrupos", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(subgrupos)
}

func (h *Handler) DeletarSubGrupo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.DeletarSubGrupo(h.DB, auth.PerfilID(r.Context()), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			http.Error(w, "este registro está em uso", http.StatusConflict)
			return
		}
		http.Error(w, "erro ao deletar subgrupo", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SalvarTabelaPreco(w http.ResponseWriter, r *http.Request) {
	var t TabelaPreco
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	t.PerfilID = auth.PerfilID(r.Context())
	if t.Nome == "" {
		http.Error(w, "nome é obrigatório", http.StatusUnprocessableEntity)
		return
	}
	for i := range t.Itens {
		t.Itens[i].TabelaPrecoID = t.ID
	}

	if err := h.Repository.SalvarTabelaPreco(h.DB, &t); err != nil {
		http.Error(w, "erro ao salvar tabela de preços", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(t)
}

func (h *Handler) BuscarTabelaPreco(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	t, err := h.Repository.BuscarTabelaPrecoPorID(h.DB, auth.PerfilID(r.Context()), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "tabela de preços não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar tabela de preços", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(t)
}

func (h *Handler) ListarTabelasPreco(w http.ResponseWriter, r *http.Request) {
	tabelas, err := h.Repository.ListarTabelasPreco(h.DB, auth.PerfilID(r.Context()))
	if err != nil {
		http.Error(w, "erro ao listar tabelas de preços", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(tabelas)
}

func (h *Handler) DeletarTabelaPreco(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.DeletarTabelaPreco(h.DB, auth.PerfilID(r.Context()), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "tabela de preços não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao deletar tabela de preços", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
