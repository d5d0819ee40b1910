package empresa

import "gorm.io/gorm"

type Repository interface {
	Salvar(db *gorm.DB, e *Empresa) error
	BuscarPorID(db *gorm.DB, perfilID, id uint) (*Empresa, error)
	Listar(db *gorm.DB, perfilID uint) ([]Empresa, error)
	Deletar(db *gorm.DB, perfilID, id uint) error
	MarcarRegistrada(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, e *Empresa) error {
	return db.Save(e).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, perfilID, id uint) (*Empresa, error) {
	var e Empresa
	err := db.Where("perfil_id = ?", perfilID).First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, perfilID uint) ([]Empresa, error) {
	var empresas []Empresa
	err := db.Where("perfil_id = ?", perfilID).Order("razao_social").Find(&empresas).Error
	return empresas, err
}

func (r *repositoryImpl) Deletar(db *gorm.DB, perfilID, id uint) error {
	var e Empresa
	if err := db.Where("perfil_id = ?", perfilID).First(&e, id).Error; err != nil {
		return err
	}
	return db.Delete(&e).Error
}

func (r *repositoryImpl) MarcarRegistrada(db *gorm.DB, id uint) error {
	return db.Model(&Empresa{}).Where("id = ?", id).Update("registrada_fiscal", true).Error
}
