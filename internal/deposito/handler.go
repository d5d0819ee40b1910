package deposito

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
	var d Deposito
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	d.PerfilID = auth.PerfilID(r.Context())
	if d.Nome == "" {
		http.Error(w, "nome é obrigatório", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Repository.Salvar(h.DB, &d); err != nil {
		http.Error(w, "erro ao salvar depósito", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	depositos, err := h.Repository.Listar(h.DB, auth.PerfilID(r.Context()))
	if err != nil {
		http.Error(w, "erro ao listar depósitos", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(depositos)
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	d, err := h.Repository.BuscarPorID(h.DB, auth.PerfilID(r.Context()), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "depósito não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar depósito", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(d)
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
			http.Error(w, "depósito não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar depósito", http.StatusInternalServerError)
		return
	}

	var d Deposito
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	d.ID = atual.ID
	d.PerfilID = perfilID

	if err := h.Repository.Salvar(h.DB, &d); err != nil {
		http.Error(w, "erro ao atualizar depósito", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(d)
}

func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Deletar(h.DB, auth.PerfilID(r.Context()), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			http.Error(w, "este registro está em uso", http.StatusConflict)
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "depósito não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao deletar depósito", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
