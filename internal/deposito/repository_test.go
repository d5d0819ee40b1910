package deposito

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thebest-sistemas/api/internal/produto"
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

	require.NoError(t, db.AutoMigrate(&Deposito{}, &produto.Produto{}))
	return db
}

func TestSalvarTrocaPadrao(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	matriz := &Deposito{PerfilID: 1, Nome: "Matriz", Padrao: true}
	require.NoError(t, repo.Salvar(db, matriz))

	filial := &Deposito{PerfilID: 1, Nome: "Filial", Padrao: true}
	require.NoError(t, repo.Salvar(db, filial))

	recarregado, err := repo.BuscarPorID(db, 1, matriz.ID)
	require.NoError(t, err)
	assert.False(t, recarregado.Padrao)

	recarregado, err = repo.BuscarPorID(db, 1, filial.ID)
	require.NoError(t, err)
	assert.True(t, recarregado.Padrao)
}

func TestPadraoNaoVazaEntrePerfis(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	outro := &Deposito{PerfilID: 2, Nome: "Outro tenant", Padrao: true}
	require.NoError(t, repo.Salvar(db, outro))
	require.NoError(t, repo.Salvar(db, &Deposito{PerfilID: 1, Nome: "Matriz", Padrao: true}))

	recarregado, err := repo.BuscarPorID(db, 2, outro.ID)
	require.NoError(t, err)
	assert.True(t, recarregado.Padrao)
}

func TestDeletarEmUso(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	d := &Deposito{PerfilID: 1, Nome: "Galpão"}
	require.NoError(t, repo.Salvar(db, d))
	require.NoError(t, db.Create(&produto.Produto{PerfilID: 1, Nome: "Caixa", DepositoID: &d.ID}).Error)

	err := repo.Deletar(db, 1, d.ID)
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestDeletarSemUso(t *testing.T) {
	db := novoDB(t)
	repo := NewRepository()

	d := &Deposito{PerfilID: 1, Nome: "Temporário"}
	require.NoError(t, repo.Salvar(db, d))
	require.NoError(t, repo.Deletar(db, 1, d.ID))

	depositos, err := repo.Listar(db, 1)
	require.NoError(t, err)
	assert.Empty(t, depositos)
}
