package perfil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtrairSubdominio(t *testing.T) {
	const base = "thebest.app.br"

	tests := []struct {
		host string
		want string
	}{
		{"acme.thebest.app.br", "acme"},
		{"acme.thebest.app.br:3000", "acme"},
		{"ACME.thebest.app.br", "acme"},
		{"thebest.app.br", ""},
		{"thebest.app.br:8080", ""},
		{"localhost", ""},
		{"localhost:3000", ""},
		{"127.0.0.1", ""},
		{"127.0.0.1:8080", ""},
		{"www.thebest.app.br", ""},
		{"thebest.outrodominio.com", ""},
		{"loja", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtrairSubdominio(tt.host, base), "host=%q", tt.host)
	}
}

func TestRotaPorTipo(t *testing.T) {
	rota, err := RotaPorTipo(TipoRevenda)
	require.NoError(t, err)
	assert.Equal(t, "/revendas/dashboard", rota)

	rota, err = RotaPorTipo(TipoERP)
	require.NoError(t, err)
	assert.Equal(t, "/erp/dashboard", rota)

	rota, err = RotaPorTipo(TipoMaster)
	require.NoError(t, err)
	assert.Equal(t, "/master/dashboard", rota)

	_, err = RotaPorTipo(99)
	assert.ErrorIs(t, err, ErrTipoNaoReconhecido)
}

func perfilTipo(id uint, tipo uint8) Perfil {
	p := Perfil{Tipo: tipo}
	p.ID = id
	return p
}

func TestResolverLoginSemSubdominio(t *testing.T) {
	// nenhum perfil vinculado
	_, _, err := ResolverLogin("", nil, nil)
	assert.ErrorIs(t, err, ErrNenhumPerfil)

	// exatamente um perfil roteia pelo tipo
	rota, ativo, err := ResolverLogin("", nil, []Perfil{perfilTipo(1, TipoERP)})
	require.NoError(t, err)
	assert.Equal(t, RotaERP, rota)
	require.NotNil(t, ativo)
	assert.Equal(t, uint(1), ativo.ID)

	// tipo desconhecido falha com a mensagem fixa
	_, _, err = ResolverLogin("", nil, []Perfil{perfilTipo(1, 42)})
	assert.ErrorIs(t, err, ErrTipoNaoReconhecido)

	// vários perfis vão para o seletor, sem perfil ativo ainda
	rota, ativo, err = ResolverLogin("", nil, []Perfil{
		perfilTipo(1, TipoERP),
		perfilTipo(2, TipoRevenda),
	})
	require.NoError(t, err)
	assert.Equal(t, RotaSelecionar, rota)
	assert.Nil(t, ativo)
}

func TestResolverLoginComPerfilDoDominio(t *testing.T) {
	dominio := perfilTipo(7, TipoRevenda)

	// usuário sem acesso ao perfil do subdomínio
	_, _, err := ResolverLogin("acme", &dominio, []Perfil{perfilTipo(1, TipoERP)})
	assert.ErrorIs(t, err, ErrSemPermissao)

	// com acesso, o perfil do domínio vira o contexto ativo
	rota, ativo, err := ResolverLogin("acme", &dominio, []Perfil{
		perfilTipo(1, TipoERP),
		perfilTipo(7, TipoRevenda),
	})
	require.NoError(t, err)
	assert.Equal(t, RotaRevenda, rota)
	require.NotNil(t, ativo)
	assert.Equal(t, uint(7), ativo.ID)
}

func TestResolverLoginFallback(t *testing.T) {
	// subdomínio não resolve: prefere ERP > Revenda > Master
	rota, ativo, err := ResolverLogin("naoexiste", nil, []Perfil{
		perfilTipo(3, TipoMaster),
		perfilTipo(2, TipoRevenda),
		perfilTipo(1, TipoERP),
	})
	require.NoError(t, err)
	assert.Equal(t, RotaERP, rota)
	assert.Equal(t, uint(1), ativo.ID)

	rota, ativo, err = ResolverLogin("naoexiste", nil, []Perfil{
		perfilTipo(3, TipoMaster),
		perfilTipo(2, TipoRevenda),
	})
	require.NoError(t, err)
	assert.Equal(t, RotaRevenda, rota)
	assert.Equal(t, uint(2), ativo.ID)

	rota, _, err = ResolverLogin("naoexiste", nil, []Perfil{perfilTipo(3, TipoMaster)})
	require.NoError(t, err)
	assert.Equal(t, RotaMaster, rota)

	_, _, err = ResolverLogin("naoexiste", nil, nil)
	assert.ErrorIs(t, err, ErrNenhumPerfil)
}
