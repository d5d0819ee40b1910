package cobranca

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/thebest-sistemas/api/internal/asaas"
	"github.com/thebest-sistemas/api/internal/auth"
	"github.com/thebest-sistemas/api/internal/perfil"
)

// Handler trata o webhook do gateway e as consultas de cobrança.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Perfis     perfil.Repository
	Publicador Publicador
	Assinante  Assinante
}

func NewHandler(db *gorm.DB, publicador Publicador, assinante Assinante) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Perfis:     perfil.NewRepository(),
		Publicador: publicador,
		Assinante:  assinante,
	}
}

type webhookRequest struct {
	Event   string `json:"event"`
	Payment struct {
		ID                string  `json:"id"`
		Status            string  `json:"status"`
		Value             float64 `json:"value"`
		ExternalReference string  `json:"externalReference"`
		PaymentDate       string  `json:"paymentDate"`
	} `json:"payment"`
}

// WebhookAsaas é o único gravador do flag pago. Marca a cobrança como paga,
// ativa a revenda quando a cobrança é de ativação e publica o evento.
// Idempotente: reentregas do gateway respondem 200 sem efeito.
func (h *Handler) WebhookAsaas(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if req.Event != "PAYMENT_RECEIVED" && req.Event != "PAYMENT_CONFIRMED" {
		w.WriteHeader(http.StatusOK)
		return
	}

	c, err := h.Repository.BuscarPorAsaasID(h.DB, req.Payment.ID)
	if err != nil {
		// cobrança desconhecida: responde 200 para o gateway não reentregar
		log.Printf("webhook para cobrança desconhecida %s", req.Payment.ID)
		w.WriteHeader(http.StatusOK)
		return
	}
	if c.Pago {
		w.WriteHeader(http.StatusOK)
		return
	}

	agora := time.Now()
	var marcada bool
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		marcada, err = h.Repository.MarcarPaga(tx, c.ID, agora)
		if err != nil {
			return err
		}
		// reentrega concorrente: outra requisição já marcou dentro da
		// janela entre a leitura acima e este update
		if !marcada {
			return nil
		}
		if err := tx.Model(&Cobranca{}).Where("id = ?", c.ID).
			Update("resposta_gateway", string(body)).Error; err != nil {
			return err
		}
		if c.Tipo == asaas.CobrancaAtivacaoRevenda {
			return h.Perfis.AtualizarRevendaStatus(tx, c.PerfilID, perfil.RevendaAtiva)
		}
		return nil
	})
	if err != nil {
		http.Error(w, "erro ao processar pagamento", http.StatusInternalServerError)
		return
	}
	if !marcada {
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.Publicador != nil {
		evt := EventoPago{PerfilID: c.PerfilID, CobrancaID: c.ID, Tipo: c.Tipo}
		if err := h.Publicador.PublicarPaga(r.Context(), evt); err != nil {
			log.Printf("erro ao publicar evento de cobrança paga: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

// Pendente retorna a cobrança em aberto do perfil ativo, ou null.
func (h *Handler) Pendente(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())
	tipo := r.URL.Query().Get("tipo")
	if tipo == "" {
		tipo = asaas.CobrancaAtivacaoRevenda
	}

	w.Header().Set("Content-Type", "application/json")
	c, err := h.Repository.BuscarPendente(h.DB, perfilID, tipo)
	if err != nil {
		w.Write([]byte("null"))
		return
	}
	json.NewEncoder(w).Encode(c)
}

// Listar retorna o histórico de cobranças do perfil ativo.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	cobrancas, err := h.Repository.ListarPorPerfil(h.DB, perfilID)
	if err != nil {
		http.Error(w, "erro ao listar cobranças", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cobrancas)
}

// Eventos entrega, via Server-Sent Events, as cobranças pagas do perfil
// ativo. Substitui a assinatura realtime que o front fazia na tabela.
func (h *Handler) Eventos(w http.ResponseWriter, r *http.Request) {
	perfilID := auth.PerfilID(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming não suportado", http.StatusInternalServerError)
		return
	}
	if h.Assinante == nil {
		http.Error(w, "eventos indisponíveis", http.StatusServiceUnavailable)
		return
	}

	ch, cancelar, err := h.Assinante.AssinarPagas(r.Context())
	if err != nil {
		http.Error(w, "erro ao assinar eventos", http.StatusInternalServerError)
		return
	}
	defer cancelar()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, aberto := <-ch:
			if !aberto {
				return
			}
			if evt.PerfilID != perfilID {
				continue
			}
			data, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
