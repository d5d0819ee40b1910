package pessoa

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/thebest-sistemas/api/internal/auth"
)

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

type listaResponse struct {
	Dados []Pessoa `json:"dados"`
	Total int64    `json:"total"`
}

// Criar cadastra pessoa com as coleções filhas de uma vez.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	var p Pessoa
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if p.Nome == "" {
		http.Error(w, "nome é obrigatório", http.StatusBadRequest)
		return
	}
	p.PerfilID = perfilID

	if err := h.Repository.Salvar(h.DB, &p); err != nil {
		http.Error(w, "erro ao salvar pessoa", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// Listar pagina as pessoas do perfil ativo, com busca por nome/documento.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	pagina, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
	if pagina < 1 {
		pagina = 1
	}
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))
	if limite < 1 || limite > 100 {
		limite = 25
	}
	busca := r.URL.Query().Get("busca")

	pessoas, total, err := h.Repository.Listar(h.DB, perfilID, busca, (pagina-1)*limite, limite)
	if err != nil {
		http.Error(w, "erro ao listar pessoas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listaResponse{Dados: pessoas, Total: total})
}

// BuscarPorID retorna a pessoa com todas as coleções filhas.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, perfilID, uint(id))
	if err != nil {
		http.Error(w, "pessoa não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Atualizar grava os dados e os patches das coleções filhas.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var req AtualizarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, perfilID, uint(id))
	if err != nil {
		http.Error(w, "pessoa não encontrada", http.StatusNotFound)
		return
	}

	if err := h.Repository.Atualizar(h.DB, p, &req); err != nil {
		http.Error(w, "erro ao atualizar pessoa", http.StatusInternalServerError)
		return
	}

	atual, err := h.Repository.BuscarPorID(h.DB, perfilID, uint(id))
	if err != nil {
		http.Error(w, "erro ao recarregar pessoa", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(atual)
}

// Deletar remove a pessoa e as coleções filhas.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Deletar(h.DB, perfilID, uint(id)); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "pessoa não encontrada", http.StatusNotFound)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			http.Error(w, "este registro está em uso", http.StatusConflict)
		default:
			http.Error(w, "erro ao excluir pessoa", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pessoa excluída com sucesso"))
}
