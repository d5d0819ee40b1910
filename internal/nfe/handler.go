package nfe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/thebest-sistemas/api/internal/auth"
	"github.com/thebest-sistemas/api/internal/empresa"
	"github.com/thebest-sistemas/api/internal/nuvemfiscal"
)

// Emissor é o recorte do provedor fiscal usado na emissão e consulta.
type Emissor interface {
	EmitirNfe(ctx context.Context, emp nuvemfiscal.DadosEmpresa, infNfe json.RawMessage) (*nuvemfiscal.Nfe, error)
	ConsultarNfe(ctx context.Context, id string) (*nuvemfiscal.Nfe, error)
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Empresas   empresa.Repository
	Emissor    Emissor
}

func NewHandler(db *gorm.DB, repo Repository, empresas empresa.Repository, emissor Emissor) *Handler {
	return &Handler{DB: db, Repository: repo, Empresas: empresas, Emissor: emissor}
}

type emitirRequest struct {
	EmpresaID uint            `json:"empresaId"`
	InfNfe    json.RawMessage `json:"infNfe"`
}

// Emitir reserva a numeração local, envia a nota ao provedor e grava o
// espelho com a resposta. A numeração é consumida mesmo quando o provedor
// rejeita: nota rejeitada fica gravada com o motivo.
func (h *Handler) Emitir(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	var req emitirRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	if req.EmpresaID == 0 || len(req.InfNfe) == 0 {
		http.Error(w, "empresa e infNfe são obrigatórios", http.StatusUnprocessableEntity)
		return
	}

	emp, err := h.Empresas.BuscarPorID(h.DB, perfilID, req.EmpresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "empresa não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar empresa", http.StatusInternalServerError)
		return
	}

	nota := NotaFiscal{
		PerfilID:  perfilID,
		EmpresaID: emp.ID,
		Numero:    emp.ProximoNumeroNfe,
		Serie:     emp.SerieNfe,
		Status:    "pendente",
		Payload:   string(req.InfNfe),
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.Salvar(tx, &nota); err != nil {
			return err
		}
		return tx.Model(emp).Update("proximo_numero_nfe", emp.ProximoNumeroNfe+1).Error
	})
	if err != nil {
		http.Error(w, "erro ao registrar nota", http.StatusInternalServerError)
		return
	}

	resposta, err := h.Emissor.EmitirNfe(r.Context(), emp.DadosFiscais(), req.InfNfe)
	if err != nil {
		h.Repository.AtualizarStatus(h.DB, nota.ID, "rejeitado", "", err.Error())
		http.Error(w, "erro ao emitir nota fiscal", http.StatusBadGateway)
		return
	}

	nota.NuvemFiscalID = resposta.ID
	nota.Status = resposta.Status
	nota.ChaveAcesso = resposta.ChaveAcesso
	nota.MotivoStatus = resposta.MotivoStatus
	if err := h.Repository.Salvar(h.DB, &nota); err != nil {
		http.Error(w, "erro ao gravar nota", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(nota)
}

// BuscarPorID devolve o espelho local, atualizando o status junto ao
// provedor quando a nota ainda não chegou a um estado final.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	perfilID := auth.PerfilID(r.Context())
	nota, err := h.Repository.BuscarPorID(h.DB, perfilID, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "nota não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar nota", http.StatusInternalServerError)
		return
	}

	if nota.NuvemFiscalID != "" && nota.Status != "autorizado" && nota.Status != "cancelado" {
		if atual, err := h.Emissor.ConsultarNfe(r.Context(), nota.NuvemFiscalID); err == nil {
			nota.Status = atual.Status
			nota.ChaveAcesso = atual.ChaveAcesso
			nota.MotivoStatus = atual.MotivoStatus
			h.Repository.AtualizarStatus(h.DB, nota.ID, atual.Status, atual.ChaveAcesso, atual.MotivoStatus)
		}
	}

	json.NewEncoder(w).Encode(nota)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	notas, err := h.Repository.ListarPorPerfil(h.DB, auth.PerfilID(r.Context()))
	if err != nil {
		http.Error(w, "erro ao listar notas", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(notas)
}
