package nfe

import "gorm.io/gorm"

type Repository interface {
	Salvar(db *gorm.DB, n *NotaFiscal) error
	BuscarPorID(db *gorm.DB, perfilID, id uint) (*NotaFiscal, error)
	ListarPorPerfil(db *gorm.DB, perfilID uint) ([]NotaFiscal, error)
	AtualizarStatus(db *gorm.DB, id uint, status, chave, motivo string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, n *NotaFiscal) error {
	return db.Save(n).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, perfilID, id uint) (*NotaFiscal, error) {
	var n NotaFiscal
	err := db.Where("perfil_id = ?", perfilID).First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repositoryImpl) ListarPorPerfil(db *gorm.DB, perfilID uint) ([]NotaFiscal, error) {
	var notas []NotaFiscal
	err := db.Where("perfil_id = ?", perfilID).Order("id DESC").Find(&notas).Error
	return notas, err
}

func (r *repositoryImpl) AtualizarStatus(db *gorm.DB, id uint, status, chave, motivo string) error {
	return db.Model(&NotaFiscal{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        status,
		"chave_acesso":  chave,
		"motivo_status": motivo,
	}).Error
}
