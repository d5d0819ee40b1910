// Package revenda implementa o portão de ativação de revendas: enquanto o
// perfil não está ativo, toda a área de revenda aponta para a página de
// ativação, que gera uma cobrança PIX única no gateway.
package revenda

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thebest-sistemas/api/internal/asaas"
	"github.com/thebest-sistemas/api/internal/auth"
	"github.com/thebest-sistemas/api/internal/cobranca"
	"github.com/thebest-sistemas/api/internal/perfil"
)

// Valor fixo da ativação e prazo de vencimento da cobrança.
const (
	ValorAtivacao = 250.00
	PrazoCobranca = 24 * time.Hour
)

const RotaAtivacao = "/revendas/ativar_revenda"

type Handler struct {
	DB        *gorm.DB
	Asaas     *asaas.Client
	Cobrancas cobranca.Repository
	Perfis    perfil.Repository
}

func NewHandler(db *gorm.DB, client *asaas.Client) *Handler {
	return &Handler{
		DB:        db,
		Asaas:     client,
		Cobrancas: cobranca.NewRepository(),
		Perfis:    perfil.NewRepository(),
	}
}

type statusResponse struct {
	Ativo   bool   `json:"ativo"`
	Destino string `json:"destino"`
}

type ativarRequest struct {
	Nome     string `json:"nome"`
	CpfCnpj  string `json:"cpfCnpj"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

type subcontaRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	CpfCnpj  string `json:"cpfCnpj"`
	Telefone string `json:"telefone"`
}

// Status é o portão: responde se a revenda está ativa e para onde navegar.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	p, err := h.Perfis.BuscarPorID(h.DB, perfilID)
	if err != nil {
		http.Error(w, "perfil não encontrado", http.StatusNotFound)
		return
	}

	resp := statusResponse{Ativo: p.RevendaStatus == perfil.RevendaAtiva, Destino: RotaAtivacao}
	if resp.Ativo {
		resp.Destino = perfil.RotaRevenda
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Ativar gera a cobrança de ativação. Os passos são sequenciais e sem
// compensação: cliente remoto → espelho local → cobrança remota → QR code →
// cobrança local. Falha em qualquer passo aborta e devolve a mensagem crua
// do gateway; repetir a chamada com cobrança pendente devolve a existente.
func (h *Handler) Ativar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	perfilID := auth.PerfilID(ctx)

	p, err := h.Perfis.BuscarPorID(h.DB, perfilID)
	if err != nil {
		http.Error(w, "perfil não encontrado", http.StatusNotFound)
		return
	}
	if p.RevendaStatus == perfil.RevendaAtiva {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(statusResponse{Ativo: true, Destino: perfil.RotaRevenda})
		return
	}

	if pendente, err := h.Cobrancas.BuscarPendente(h.DB, perfilID, asaas.CobrancaAtivacaoRevenda); err == nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pendente)
		return
	}

	var req ativarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.CpfCnpj == "" {
		http.Error(w, "cpfCnpj obrigatório", http.StatusBadRequest)
		return
	}

	// (a) cliente no gateway, reaproveitando o espelho local se houver
	var clienteID string
	if espelho, err := h.Cobrancas.BuscarClientePorPerfil(h.DB, perfilID); err == nil {
		clienteID = espelho.AsaasID
	} else {
		cliente, err := h.Asaas.ObterOuCriarCliente(ctx, asaas.NovoCliente{
			Name:        req.Nome,
			CpfCnpj:     req.CpfCnpj,
			Email:       req.Email,
			MobilePhone: req.Telefone,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		clienteID = cliente.ID

		// (b) espelho local
		err = h.Cobrancas.SalvarCliente(h.DB, &cobranca.AsaasCliente{
			PerfilID: perfilID,
			AsaasID:  cliente.ID,
			CpfCnpj:  cliente.CpfCnpj,
		})
		if err != nil {
			http.Error(w, "erro ao salvar cliente", http.StatusInternalServerError)
			return
		}
	}

	// (c) cobrança remota
	vencimento := time.Now().Add(PrazoCobranca)
	referencia := uuid.NewString()
	remota, err := h.Asaas.CriarCobranca(ctx, asaas.NovaCobranca{
		Customer:          clienteID,
		BillingType:       "PIX",
		Value:             ValorAtivacao,
		DueDate:           vencimento.Format("2006-01-02"),
		Description:       "Ativação de revenda",
		ExternalReference: referencia,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	// (d) QR code PIX
	qr, err := h.Asaas.ObterQrCodePix(ctx, remota.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	// (e) cobrança local com snapshot da resposta do gateway
	snapshot, _ := json.Marshal(remota)
	local := cobranca.Cobranca{
		PerfilID:          perfilID,
		Tipo:              asaas.CobrancaAtivacaoRevenda,
		Valor:             ValorAtivacao,
		Vencimento:        vencimento,
		AsaasID:           remota.ID,
		ExternalReference: referencia,
		QrCodePix:         qr.EncodedImage,
		CopiaECola:        qr.Payload,
		RespostaGateway:   string(snapshot),
	}
	if err := h.Cobrancas.Salvar(h.DB, &local); err != nil {
		http.Error(w, "erro ao salvar cobrança", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(local)
}

// CriarSubconta provisiona a subconta white-label da revenda no gateway e
// guarda o espelho local. Chamada repetida devolve a subconta existente.
func (h *Handler) CriarSubconta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	perfilID := auth.PerfilID(ctx)

	if existente, err := h.Cobrancas.BuscarContaPorPerfil(h.DB, perfilID); err == nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(existente)
		return
	}

	var req subcontaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Nome == "" || req.Email == "" || req.CpfCnpj == "" {
		http.Error(w, "nome, email e cpfCnpj são obrigatórios", http.StatusBadRequest)
		return
	}

	remota, err := h.Asaas.CriarSubconta(ctx, asaas.NovaSubconta{
		Name:        req.Nome,
		Email:       req.Email,
		CpfCnpj:     req.CpfCnpj,
		MobilePhone: req.Telefone,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	conta := cobranca.AsaasConta{
		PerfilID: perfilID,
		AsaasID:  remota.ID,
		WalletID: remota.WalletId,
		ApiKey:   remota.ApiKey,
	}
	if err := h.Cobrancas.SalvarConta(h.DB, &conta); err != nil {
		http.Error(w, "erro ao salvar subconta", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(conta)
}

// StatusSubconta consulta no gateway a situação de aprovação da subconta.
func (h *Handler) StatusSubconta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	perfilID := auth.PerfilID(ctx)

	conta, err := h.Cobrancas.BuscarContaPorPerfil(h.DB, perfilID)
	if err != nil {
		http.Error(w, "subconta não encontrada", http.StatusNotFound)
		return
	}

	status, err := h.Asaas.StatusSubconta(ctx, conta.AsaasID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
