package cobranca

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, c *Cobranca) error
	BuscarPorID(db *gorm.DB, id uint) (*Cobranca, error)
	BuscarPorAsaasID(db *gorm.DB, asaasID string) (*Cobranca, error)
	BuscarPendente(db *gorm.DB, perfilID uint, tipo string) (*Cobranca, error)
	ListarPorPerfil(db *gorm.DB, perfilID uint) ([]Cobranca, error)
	MarcarPaga(db *gorm.DB, id uint, quando time.Time) (bool, error)

	SalvarCliente(db *gorm.DB, c *AsaasCliente) error
	BuscarClientePorPerfil(db *gorm.DB, perfilID uint) (*AsaasCliente, error)
	SalvarConta(db *gorm.DB, c *AsaasConta) error
	BuscarContaPorPerfil(db *gorm.DB, perfilID uint) (*AsaasConta, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Cobranca) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Cobranca, error) {
	var c Cobranca
	err := db.First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) BuscarPorAsaasID(db *gorm.DB, asaasID string) (*Cobranca, error) {
	var c Cobranca
	err := db.Where("asaas_id = ?", asaasID).First(&c).Error
	return &c, err
}

// BuscarPendente retorna a cobrança não paga mais recente do perfil no tipo.
func (r *repositoryImpl) BuscarPendente(db *gorm.DB, perfilID uint, tipo string) (*Cobranca, error) {
	var c Cobranca
	err := db.Where("perfil_id = ? AND tipo = ? AND pago = ?", perfilID, tipo, false).
		Order("id DESC").
		First(&c).Error
	return &c, err
}

func (r *repositoryImpl) ListarPorPerfil(db *gorm.DB, perfilID uint) ([]Cobranca, error) {
	var cobrancas []Cobranca
	err := db.Where("perfil_id = ?", perfilID).Order("id DESC").Find(&cobrancas).Error
	return cobrancas, err
}

// MarcarPaga só grava sobre cobrança ainda não paga; devolve false quando a
// linha já estava paga (reentrega concorrente do webhook).
func (r *repositoryImpl) MarcarPaga(db *gorm.DB, id uint, quando time.Time) (bool, error) {
	res := db.Model(&Cobranca{}).
		Where("id = ? AND pago = ?", id, false).
		Updates(map[string]interface{}{"pago": true, "pago_em": quando})
	return res.RowsAffected > 0, res.Error
}

func (r *repositoryImpl) SalvarCliente(db *gorm.DB, c *AsaasCliente) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) BuscarClientePorPerfil(db *gorm.DB, perfilID uint) (*AsaasCliente, error) {
	var c AsaasCliente
	err := db.Where("perfil_id = ?", perfilID).First(&c).Error
	return &c, err
}

func (r *repositoryImpl) SalvarConta(db *gorm.DB, c *AsaasConta) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) BuscarContaPorPerfil(db *gorm.DB, perfilID uint) (*AsaasConta, error) {
	var c AsaasConta
	err := db.Where("perfil_id = ?", perfilID).First(&c).Error
	return &c, err
}
