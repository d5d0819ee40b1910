package pessoa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func novoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&Pessoa{}, &PessoaTelefone{}, &PessoaContato{}, &PessoaRedeSocial{}, &PessoaAnexo{},
	))
	return db
}

func TestSalvarComFilhos(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	p := Pessoa{
		PerfilID: 1,
		Nome:     "Maria Souza",
		Telefones: []PessoaTelefone{
			{Numero: "11 99999-0001", WhatsApp: true},
		},
		Contatos: []PessoaContato{{Nome: "João", Cargo: "Compras"}},
	}
	require.NoError(t, repo.Salvar(db, &p))

	carregada, err := repo.BuscarPorID(db, 1, p.ID)
	require.NoError(t, err)
	assert.Len(t, carregada.Telefones, 1)
	assert.Len(t, carregada.Contatos, 1)
}

func TestBuscarPorIDIsolaPorPerfil(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	p := Pessoa{PerfilID: 1, Nome: "Da Loja Um"}
	require.NoError(t, repo.Salvar(db, &p))

	_, err := repo.BuscarPorID(db, 2, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAtualizarAplicaPatches(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	p := Pessoa{
		PerfilID: 1,
		Nome:     "Maria",
		Telefones: []PessoaTelefone{
			{Numero: "11 1111-1111"},
			{Numero: "11 2222-2222"},
		},
	}
	require.NoError(t, repo.Salvar(db, &p))

	alterado := p.Telefones[0]
	alterado.Numero = "11 3333-3333"

	req := &AtualizarRequest{
		Dados: Pessoa{Nome: "Maria Souza", Cliente: true},
		Telefones: Patch[PessoaTelefone]{
			Adicionar:  []PessoaTelefone{{Numero: "11 4444-4444", WhatsApp: true}},
			Alterar:    []PessoaTelefone{alterado},
			RemoverIDs: []uint{p.Telefones[1].ID},
		},
		Contatos: Patch[PessoaContato]{
			Adicionar: []PessoaContato{{Nome: "Novo Contato"}},
		},
	}
	require.NoError(t, repo.Atualizar(db, &p, req))

	atual, err := repo.BuscarPorID(db, 1, p.ID)
	require.NoError(t, err)

	assert.Equal(t, "Maria Souza", atual.Nome)
	assert.True(t, atual.Cliente)

	require.Len(t, atual.Telefones, 2)
	numeros := []string{atual.Telefones[0].Numero, atual.Telefones[1].Numero}
	assert.Contains(t, numeros, "11 3333-3333")
	assert.Contains(t, numeros, "11 4444-4444")
	assert.NotContains(t, numeros, "11 2222-2222")

	require.Len(t, atual.Contatos, 1)
	assert.Equal(t, "Novo Contato", atual.Contatos[0].Nome)
}

func TestListarComBusca(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	require.NoError(t, repo.Salvar(db, &Pessoa{PerfilID: 1, Nome: "Alberto Lima"}))
	require.NoError(t, repo.Salvar(db, &Pessoa{PerfilID: 1, Nome: "Beatriz Costa"}))
	require.NoError(t, repo.Salvar(db, &Pessoa{PerfilID: 2, Nome: "Alberto De Outro Perfil"}))

	pessoas, total, err := repo.Listar(db, 1, "", 0, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, pessoas, 2)

	pessoas, total, err = repo.Listar(db, 1, "Alberto", 0, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pessoas, 1)
	assert.Equal(t, "Alberto Lima", pessoas[0].Nome)
}

func TestDeletarRemoveFilhos(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	p := Pessoa{PerfilID: 1, Nome: "Para Excluir", Telefones: []PessoaTelefone{{Numero: "11"}}}
	require.NoError(t, repo.Salvar(db, &p))

	require.NoError(t, repo.Deletar(db, 1, p.ID))

	_, err := repo.BuscarPorID(db, 1, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var restantes int64
	require.NoError(t, db.Model(&PessoaTelefone{}).Where("pessoa_id = ?", p.ID).Count(&restantes).Error)
	assert.Zero(t, restantes)
}
