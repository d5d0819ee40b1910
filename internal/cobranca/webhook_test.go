package cobranca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thebest-sistemas/api/internal/asaas"
	"github.com/thebest-sistemas/api/internal/perfil"
)

type publicadorFake struct {
	eventos []EventoPago
}

func (p *publicadorFake) PublicarPaga(_ context.Context, evt EventoPago) error {
	p.eventos = append(p.eventos, evt)
	return nil
}

type assinanteFake struct {
	eventos []EventoPago
}

func (a *assinanteFake) AssinarPagas(_ context.Context) (<-chan EventoPago, func(), error) {
	ch := make(chan EventoPago, len(a.eventos))
	for _, evt := range a.eventos {
		ch <- evt
	}
	close(ch)
	return ch, func() {}, nil
}

func novoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&perfil.Perfil{}, &Cobranca{}, &AsaasCliente{}, &AsaasConta{}))
	return db
}

func eventoWebhook(asaasID string) []byte {
	return []byte(fmt.Sprintf(`{"event":"PAYMENT_RECEIVED","payment":{"id":%q,"status":"RECEIVED","value":250}}`, asaasID))
}

func TestWebhookMarcaPagaEAtivaRevenda(t *testing.T) {
	db := novoDB(t)
	pub := &publicadorFake{}
	h := NewHandler(db, pub, nil)

	p := perfil.Perfil{Nome: "Loja", Tipo: perfil.TipoRevenda, RevendaStatus: perfil.RevendaPendente}
	require.NoError(t, db.Create(&p).Error)
	c := Cobranca{PerfilID: p.ID, Tipo: asaas.CobrancaAtivacaoRevenda, Valor: 250, AsaasID: "pay_1"}
	require.NoError(t, db.Create(&c).Error)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewReader(eventoWebhook("pay_1")))
	rr := httptest.NewRecorder()
	h.WebhookAsaas(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var atual Cobranca
	require.NoError(t, db.First(&atual, c.ID).Error)
	assert.True(t, atual.Pago)
	require.NotNil(t, atual.PagoEm)
	assert.WithinDuration(t, time.Now(), *atual.PagoEm, time.Minute)
	assert.Contains(t, atual.RespostaGateway, "PAYMENT_RECEIVED")

	var perfilAtual perfil.Perfil
	require.NoError(t, db.First(&perfilAtual, p.ID).Error)
	assert.Equal(t, perfil.RevendaAtiva, perfilAtual.RevendaStatus)

	require.Len(t, pub.eventos, 1)
	assert.Equal(t, c.ID, pub.eventos[0].CobrancaID)
}

func TestWebhookIdempotente(t *testing.T) {
	db := novoDB(t)
	pub := &publicadorFake{}
	h := NewHandler(db, pub, nil)

	c := Cobranca{PerfilID: 1, Tipo: "mensalidade", AsaasID: "pay_2"}
	require.NoError(t, db.Create(&c).Error)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewReader(eventoWebhook("pay_2")))
		rr := httptest.NewRecorder()
		h.WebhookAsaas(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	assert.Len(t, pub.eventos, 1, "reentrega não deve publicar de novo")
}

// Duas reentregas podem passar juntas pela leitura inicial; o update com
// guarda pago=false garante que só uma delas efetiva a transição.
func TestMarcarPagaSoUmaVez(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	c := Cobranca{PerfilID: 1, Tipo: "mensalidade", AsaasID: "pay_7"}
	require.NoError(t, db.Create(&c).Error)

	marcada, err := repo.MarcarPaga(db, c.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, marcada)

	marcada, err = repo.MarcarPaga(db, c.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, marcada, "segunda marcação não deve afetar linha já paga")
}

func TestWebhookCobrancaDesconhecida(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, &publicadorFake{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewReader(eventoWebhook("pay_x")))
	rr := httptest.NewRecorder()
	h.WebhookAsaas(rr, req)

	// 200 para o gateway não ficar reentregando
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestWebhookIgnoraOutrosEventos(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, &publicadorFake{}, nil)

	c := Cobranca{PerfilID: 1, Tipo: "mensalidade", AsaasID: "pay_3"}
	require.NoError(t, db.Create(&c).Error)

	body := []byte(`{"event":"PAYMENT_CREATED","payment":{"id":"pay_3"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.WebhookAsaas(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var atual Cobranca
	require.NoError(t, db.First(&atual, c.ID).Error)
	assert.False(t, atual.Pago)
}

func TestPendenteRetornaNullSemCobranca(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/cobrancas/pendentes", nil)
	rr := httptest.NewRecorder()
	h.Pendente(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", rr.Body.String())
}

func TestEventosFiltraPorPerfil(t *testing.T) {
	db := novoDB(t)
	assinante := &assinanteFake{eventos: []EventoPago{
		{PerfilID: 99, CobrancaID: 7, Tipo: "mensalidade"},
		{PerfilID: 0, CobrancaID: 8, Tipo: asaas.CobrancaAtivacaoRevenda},
	}}
	h := NewHandler(db, nil, assinante)

	// sem token nos testes o perfil ativo do contexto é 0
	req := httptest.NewRequest(http.MethodGet, "/cobrancas/eventos", nil)
	rr := httptest.NewRecorder()
	h.Eventos(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	corpo := rr.Body.String()
	assert.Contains(t, corpo, `"cobrancaId":8`)
	assert.NotContains(t, corpo, `"cobrancaId":7`)

	var evt EventoPago
	linha := corpo[len("data: "):]
	require.NoError(t, json.Unmarshal([]byte(linha[:len(linha)-2]), &evt))
	assert.Equal(t, uint(8), evt.CobrancaID)
}
