package empresa

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
	"github.com/thebest-sistemas/api/internal/nuvemfiscal"
)

type fiscalFake struct {
	certificado    *nuvemfiscal.Certificado
	enviados       int
	excluidos      int
	garantidas     []string
	falharConsulta bool
}

func (f *fiscalFake) ConsultarCertificado(_ context.Context, emp nuvemfiscal.DadosEmpresa) (*nuvemfiscal.Certificado, error) {
	if f.falharConsulta {
		return nil, &nuvemfiscal.ErroAPI{Status: 500, Mensagem: "indisponível"}
	}
	f.garantidas = append(f.garantidas, emp.CpfCnpj)
	return f.certificado, nil
}

func (f *fiscalFake) EnviarCertificado(_ context.Context, emp nuvemfiscal.DadosEmpresa, pfxBase64, senha string) (*nuvemfiscal.Certificado, error) {
	f.enviados++
	f.garantidas = append(f.garantidas, emp.CpfCnpj)
	f.certificado = &nuvemfiscal.Certificado{SerialNumber: "ABC123", CpfCnpj: emp.CpfCnpj}
	return f.certificado, nil
}

func (f *fiscalFake) ExcluirCertificado(_ context.Context, cpfCnpj string) error {
	f.excluidos++
	f.certificado = nil
	return nil
}

func (f *fiscalFake) GarantirEmpresa(_ context.Context, emp nuvemfiscal.DadosEmpresa) error {
	f.garantidas = append(f.garantidas, emp.CpfCnpj)
	return nil
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

	require.NoError(t, db.AutoMigrate(&Empresa{}))
	return db
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

func comVarID(req *http.Request, id uint) *http.Request {
	return mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(int(id))})
}

func criarEmpresa(t *testing.T, db *gorm.DB, perfilID uint) *Empresa {
	t.Helper()
	e := &Empresa{
		PerfilID:    perfilID,
		RazaoSocial: "TheBest Comercio LTDA",
		CNPJ:        "19540550000121",
		Cidade:      "São Paulo",
		UF:          "SP",
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func TestCriarValidaCNPJ(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, NewRepository(), &fiscalFake{})

	body, _ := json.Marshal(map[string]string{
		"razaoSocial": "Empresa Sem CNPJ",
		"cnpj":        "123",
	})
	rec := httptest.NewRecorder()
	h.Criar(rec, requestComPerfil(http.MethodPost, "/empresas", body, 1))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCriarNormalizaCNPJ(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, NewRepository(), &fiscalFake{})

	body, _ := json.Marshal(map[string]string{
		"razaoSocial": "TheBest Comercio LTDA",
		"cnpj":        "19.540.550/0001-21",
	})
	rec := httptest.NewRecorder()
	h.Criar(rec, requestComPerfil(http.MethodPost, "/empresas", body, 1))

	require.Equal(t, http.StatusCreated, rec.Code)
	var salva Empresa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &salva))
	assert.Equal(t, "19540550000121", salva.CNPJ)
	assert.Equal(t, uint(1), salva.PerfilID)
}

func TestEmpresaDeOutroPerfilNaoAparece(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, NewRepository(), &fiscalFake{})
	e := criarEmpresa(t, db, 1)

	rec := httptest.NewRecorder()
	req := comVarID(requestComPerfil(http.MethodGet, "/empresas/1", nil, 2), e.ID)
	h.BuscarPorID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCertificadoSemEnvioRetornaNull(t *testing.T) {
	db := novoDB(t)
	fiscal := &fiscalFake{}
	h := NewHandler(db, NewRepository(), fiscal)
	e := criarEmpresa(t, db, 1)

	rec := httptest.NewRecorder()
	req := comVarID(requestComPerfil(http.MethodGet, "/empresas/1/certificado", nil, 1), e.ID)
	h.Certificado(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())

	// a consulta passou pelo provedor, então o cadastro fica marcado
	var recarregada Empresa
	require.NoError(t, db.First(&recarregada, e.ID).Error)
	assert.True(t, recarregada.RegistradaFiscal)
}

func TestEnviarEExcluirCertificado(t *testing.T) {
	db := novoDB(t)
	fiscal := &fiscalFake{}
	h := NewHandler(db, NewRepository(), fiscal)
	e := criarEmpresa(t, db, 1)

	body, _ := json.Marshal(certificadoRequest{Arquivo: "cGZ4LWZha2U=", Senha: "1234"})
	rec := httptest.NewRecorder()
	req := comVarID(requestComPerfil(http.MethodPut, "/empresas/1/certificado", body, 1), e.ID)
	h.EnviarCertificado(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cert nuvemfiscal.Certificado
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cert))
	assert.Equal(t, "ABC123", cert.SerialNumber)
	assert.Equal(t, 1, fiscal.enviados)

	rec = httptest.NewRecorder()
	req = comVarID(requestComPerfil(http.MethodDelete, "/empresas/1/certificado", nil, 1), e.ID)
	h.ExcluirCertificado(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, fiscal.excluidos)
}

func TestEnviarCertificadoSemSenha(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, NewRepository(), &fiscalFake{})
	e := criarEmpresa(t, db, 1)

	body, _ := json.Marshal(certificadoRequest{Arquivo: "cGZ4LWZha2U="})
	rec := httptest.NewRecorder()
	req := comVarID(requestComPerfil(http.MethodPut, "/empresas/1/certificado", body, 1), e.ID)
	h.EnviarCertificado(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCertificadoProvedorIndisponivel(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, NewRepository(), &fiscalFake{falharConsulta: true})
	e := criarEmpresa(t, db, 1)

	rec := httptest.NewRecorder()
	req := comVarID(requestComPerfil(http.MethodGet, "/empresas/1/certificado", nil, 1), e.ID)
	h.Certificado(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAtualizarPreservaNumeracaoNfe(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, NewRepository(), &fiscalFake{})
	e := criarEmpresa(t, db, 1)
	require.NoError(t, db.Model(e).Updates(map[string]interface{}{
		"serie_nfe":          2,
		"proximo_numero_nfe": 42,
	}).Error)

	// cadastro editado sem os campos de numeração no payload
	body, _ := json.Marshal(map[string]string{
		"razaoSocial": "TheBest Comercio e Servicos LTDA",
		"cnpj":        "19540550000121",
	})
	rec := httptest.NewRecorder()
	req := comVarID(requestComPerfil(http.MethodPut, "/empresas/1", body, 1), e.ID)
	h.Atualizar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var atualizada Empresa
	require.NoError(t, db.First(&atualizada, e.ID).Error)
	assert.Equal(t, 2, atualizada.SerieNfe)
	assert.Equal(t, 42, atualizada.ProximoNumeroNfe)
}

func TestAtualizarTrocaDeCNPJDesmarcaRegistro(t *testing.T) {
	db := novoDB(t)
	h := NewHandler(db, NewRepository(), &fiscalFake{})
	e := criarEmpresa(t, db, 1)
	require.NoError(t, db.Model(e).Update("registrada_fiscal", true).Error)

	body, _ := json.Marshal(map[string]string{
		"razaoSocial": "TheBest Comercio LTDA",
		"cnpj":        "45.997.418/0001-53",
	})
	rec := httptest.NewRecorder()
	req := comVarID(requestComPerfil(http.MethodPut, "/empresas/1", body, 1), e.ID)
	h.Atualizar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var atualizada Empresa
	require.NoError(t, db.First(&atualizada, e.ID).Error)
	assert.Equal(t, "45997418000153", atualizada.CNPJ)
	assert.False(t, atualizada.RegistradaFiscal)
}
