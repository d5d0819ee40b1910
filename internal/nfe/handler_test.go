package nfe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thebest-sistemas/api/internal/auth"
	"github.com/thebest-sistemas/api/internal/empresa"
	"github.com/thebest-sistemas/api/internal/nuvemfiscal"
)

type emissorFake struct {
	emitidas  int
	falhar    bool
	statusNfe string
}

func (e *emissorFake) EmitirNfe(_ context.Context, emp nuvemfiscal.DadosEmpresa, infNfe json.RawMessage) (*nuvemfiscal.Nfe, error) {
	e.emitidas++
	if e.falhar {
		return nil, &nuvemfiscal.ErroAPI{Status: 422, Mensagem: "infNFe inválido"}
	}
	return &nuvemfiscal.Nfe{
		ID:          "nfe_123",
		Status:      "processamento",
		ChaveAcesso: "",
	}, nil
}

func (e *emissorFake) ConsultarNfe(_ context.Context, id string) (*nuvemfiscal.Nfe, error) {
	status := e.statusNfe
	if status == "" {
		status = "autorizado"
	}
	return &nuvemfiscal.Nfe{
		ID:          id,
		Status:      status,
		ChaveAcesso: "35230819540550000121550010000000011000000010",
	}, nil
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

	require.NoError(t, db.AutoMigrate(&empresa.Empresa{}, &NotaFiscal{}))
	return db
}

func criarEmpresa(t *testing.T, db *gorm.DB) *empresa.Empresa {
	t.Helper()
	e := &empresa.Empresa{
		PerfilID:         1,
		RazaoSocial:      "TheBest Comercio LTDA",
		CNPJ:             "19540550000121",
		SerieNfe:         1,
		ProximoNumeroNfe: 1,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func requestComPerfil(method, target string, body []byte, perfilID uint) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.CtxPerfilID, perfilID)
	return req.WithContext(ctx)
}

func TestEmitirReservaNumeracao(t *testing.T) {
	db := novoDB(t)
	emp := criarEmpresa(t, db)
	h := NewHandler(db, NewRepository(), empresa.NewRepository(), &emissorFake{})

	body, _ := json.Marshal(emitirRequest{
		EmpresaID: emp.ID,
		InfNfe:    json.RawMessage(`{"ide":{"natOp":"Venda"}}`),
	})
	rec := httptest.NewRecorder()
	h.Emitir(rec, requestComPerfil(http.MethodPost, "/nfe", body, 1))

	require.Equal(t, http.StatusCreated, rec.Code)
	var nota NotaFiscal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nota))
	assert.Equal(t, 1, nota.Numero)
	assert.Equal(t, 1, nota.Serie)
	assert.Equal(t, "nfe_123", nota.NuvemFiscalID)
	assert.Equal(t, "processamento", nota.Status)

	var recarregada empresa.Empresa
	require.NoError(t, db.First(&recarregada, emp.ID).Error)
	assert.Equal(t, 2, recarregada.ProximoNumeroNfe)
}

func TestEmitirRejeitadaConsomeNumeracao(t *testing.T) {
	db := novoDB(t)
	emp := criarEmpresa(t, db)
	h := NewHandler(db, NewRepository(), empresa.NewRepository(), &emissorFake{falhar: true})

	body, _ := json.Marshal(emitirRequest{
		EmpresaID: emp.ID,
		InfNfe:    json.RawMessage(`{}`),
	})
	rec := httptest.NewRecorder()
	h.Emitir(rec, requestComPerfil(http.MethodPost, "/nfe", body, 1))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var notas []NotaFiscal
	require.NoError(t, db.Find(&notas).Error)
	require.Len(t, notas, 1)
	assert.Equal(t, "rejeitado", notas[0].Status)

	var recarregada empresa.Empresa
	require.NoError(t, db.First(&recarregada, emp.ID).Error)
	assert.Equal(t, 2, recarregada.ProximoNumeroNfe)
}

func TestEmitirEmpresaDeOutroPerfil(t *testing.T) {
	db := novoDB(t)
	emp := criarEmpresa(t, db)
	h := NewHandler(db, NewRepository(), empresa.NewRepository(), &emissorFake{})

	body, _ := json.Marshal(emitirRequest{EmpresaID: emp.ID, InfNfe: json.RawMessage(`{}`)})
	rec := httptest.NewRecorder()
	h.Emitir(rec, requestComPerfil(http.MethodPost, "/nfe", body, 99))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuscarAtualizaStatusPendente(t *testing.T) {
	db := novoDB(t)
	emp := criarEmpresa(t, db)
	repo := NewRepository()
	h := NewHandler(db, repo, empresa.NewRepository(), &emissorFake{})

	nota := &NotaFiscal{
		PerfilID:      1,
		EmpresaID:     emp.ID,
		Numero:        1,
		Serie:         1,
		Status:        "processamento",
		NuvemFiscalID: "nfe_123",
	}
	require.NoError(t, repo.Salvar(db, nota))

	rec := httptest.NewRecorder()
	req := requestComPerfil(http.MethodGet, "/nfe/1", nil, 1)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(int(nota.ID))})
	h.BuscarPorID(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var devolvida NotaFiscal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &devolvida))
	assert.Equal(t, "autorizado", devolvida.Status)
	assert.NotEmpty(t, devolvida.ChaveAcesso)

	salva, err := repo.BuscarPorID(db, 1, nota.ID)
	require.NoError(t, err)
	assert.Equal(t, "autorizado", salva.Status)
}

func TestListarPorPerfil(t *testing.T) {
	db := novoDB(t)
	emp := criarEmpresa(t, db)
	repo := NewRepository()
	h := NewHandler(db, repo, empresa.NewRepository(), &emissorFake{})

	require.NoError(t, repo.Salvar(db, &NotaFiscal{PerfilID: 1, EmpresaID: emp.ID, Numero: 1, Serie: 1, Status: "autorizado"}))
	require.NoError(t, repo.Salvar(db, &NotaFiscal{PerfilID: 2, EmpresaID: emp.ID, Numero: 1, Serie: 1, Status: "autorizado"}))

	rec := httptest.NewRecorder()
	h.Listar(rec, requestComPerfil(http.MethodGet, "/nfe", nil, 1))

	require.Equal(t, http.StatusOK, rec.Code)
	var notas []NotaFiscal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notas))
	assert.Len(t, notas, 1)
}
