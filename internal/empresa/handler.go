package empresa

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/thebest-sistemas/api/internal/auth"
	"github.com/thebest-sistemas/api/internal/nuvemfiscal"
	"github.com/thebest-sistemas/api/internal/utils"
)

// Fiscal é o recorte do provedor fiscal usado pelos endpoints de certificado.
type Fiscal interface {
	ConsultarCertificado(ctx context.Context, emp nuvemfiscal.DadosEmpresa) (*nuvemfiscal.Certificado, error)
	EnviarCertificado(ctx context.Context, emp nuvemfiscal.DadosEmpresa, pfxBase64, senha string) (*nuvemfiscal.Certificado, error)
	ExcluirCertificado(ctx context.Context, cpfCnpj string) error
	GarantirEmpresa(ctx context.Context, emp nuvemfiscal.DadosEmpresa) error
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Fiscal     Fiscal
}

func NewHandler(db *gorm.DB, repo Repository, fiscal Fiscal) *Handler {
	return &Handler{DB: db, Repository: repo, Fiscal: fiscal}
}

type certificadoRequest struct {
	Arquivo string `json:"arquivo"` // .pfx em base64
	Senha   string `json:"senha"`
}

func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var e Empresa
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	e.PerfilID = auth.PerfilID(r.Context())
	e.CNPJ = utils.NormalizarDocumento(e.CNPJ)
	if e.RazaoSocial == "" || utils.TipoDocumento(e.CNPJ) != "cnpj" {
		http.Error(w, "razão social e CNPJ válido são obrigatórios", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Repository.Salvar(h.DB, &e); err != nil {
		http.Error(w, "erro ao salvar empresa", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(e)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	empresas, err := h.Repository.Listar(h.DB, auth.PerfilID(r.Context()))
	if err != nil {
		http.Error(w, "erro ao listar empresas", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(empresas)
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	e, ok := h.empresaDaRota(w, r)
	if !ok {
		return
	}
	json.NewEncoder(w).Encode(e)
}

func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	atual, ok := h.empresaDaRota(w, r)
	if !ok {
		return
	}

	var e Empresa
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	e.ID = atual.ID
	e.PerfilID = atual.PerfilID
	e.CNPJ = utils.NormalizarDocumento(e.CNPJ)
	// o registro no provedor acompanha o CNPJ original
	if e.CNPJ != atual.CNPJ {
		e.RegistradaFiscal = false
	} else {
		e.RegistradaFiscal = atual.RegistradaFiscal
	}
	// a numeração pertence ao fluxo de emissão, nunca ao cadastro
	e.SerieNfe = atual.SerieNfe
	e.ProximoNumeroNfe = atual.ProximoNumeroNfe

	if err := h.Repository.Salvar(h.DB, &e); err != nil {
		http.Error(w, "erro ao atualizar empresa", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(e)
}

func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	e, ok := h.empresaDaRota(w, r)
	if !ok {
		return
	}

	if err := h.Repository.Deletar(h.DB, e.PerfilID, e.ID); err != nil {
		http.Error(w, "erro ao deletar empresa", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Certificado devolve o certificado vigente no provedor, ou null quando a
// empresa ainda não enviou nenhum.
func (h *Handler) Certificado(w http.ResponseWriter, r *http.Request) {
	e, ok := h.empresaDaRota(w, r)
	if !ok {
		return
	}

	cert, err := h.Fiscal.ConsultarCertificado(r.Context(), e.DadosFiscais())
	if err != nil {
		http.Error(w, "erro ao consultar certificado", http.StatusBadGateway)
		return
	}
	if !e.RegistradaFiscal {
		if err := h.Repository.MarcarRegistrada(h.DB, e.ID); err != nil {
			log.Printf("erro ao marcar empresa %d como registrada: %v", e.ID, err)
		}
	}

	json.NewEncoder(w).Encode(cert)
}

func (h *Handler) EnviarCertificado(w http.ResponseWriter, r *http.Request) {
	e, ok := h.empresaDaRota(w, r)
	if !ok {
		return
	}

	var req certificadoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "dados inválidos", http.StatusBadRequest)
		return
	}
	if req.Arquivo == "" || req.Senha == "" {
		http.Error(w, "arquivo e senha são obrigatórios", http.StatusUnprocessableEntity)
		return
	}

	cert, err := h.Fiscal.EnviarCertificado(r.Context(), e.DadosFiscais(), req.Arquivo, req.Senha)
	if err != nil {
		var apiErr *nuvemfiscal.ErroAPI
		if errors.As(err, &apiErr) {
			http.Error(w, apiErr.Mensagem, http.StatusBadGateway)
			return
		}
		http.Error(w, "erro ao enviar certificado", http.StatusBadGateway)
		return
	}
	if !e.RegistradaFiscal {
		if err := h.Repository.MarcarRegistrada(h.DB, e.ID); err != nil {
			log.Printf("erro ao marcar empresa %d como registrada: %v", e.ID, err)
		}
	}

	json.NewEncoder(w).Encode(cert)
}

func (h *Handler) ExcluirCertificado(w http.ResponseWriter, r *http.Request) {
	e, ok := h.empresaDaRota(w, r)
	if !ok {
		return
	}

	if err := h.Fiscal.ExcluirCertificado(r.Context(), e.CNPJ); err != nil {
		http.Error(w, "erro ao excluir certificado", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) empresaDaRota(w http.ResponseWriter, r *http.Request) (*Empresa, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return nil, false
	}

	e, err := h.Repository.BuscarPorID(h.DB, auth.PerfilID(r.Context()), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "empresa não encontrada", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, "erro ao buscar empresa", http.StatusInternalServerError)
		return nil, false
	}
	return e, true
}
