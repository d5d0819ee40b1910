package deposito

import "gorm.io/gorm"

type Repository interface {
	Salvar(db *gorm.DB, d *Deposito) error
	BuscarPorID(db *gorm.DB, perfilID, id uint) (*Deposito, error)
	Listar(db *gorm.DB, perfilID uint) ([]Deposito, error)
	Deletar(db *gorm.DB, perfilID, id uint) error
	EmUso(db *gorm.DB, id uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, d *Deposito) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// um único depósito padrão por tenant
		if d.Padrao {
			err := tx.Model(&Deposito{}).
				Where("perfil_id = ? AND id <> ?", d.PerfilID, d.ID).
				Update("padrao", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Save(d).Error
	})
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, perfilID, id uint) (*Deposito, error) {
	var d Deposito
	err := db.Where("perfil_id = ?", perfilID).First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, perfilID uint) ([]Deposito, error) {
	var depositos []Deposito
	err := db.Where("perfil_id = ?", perfilID).Order("nome").Find(&depositos).Error
	return depositos, err
}

func (r *repositoryImpl) Deletar(db *gorm.DB, perfilID, id uint) error {
	emUso, err := r.EmUso(db, id)
	if err != nil {
		return err
	}
	if emUso {
		return gorm.ErrForeignKeyViolated
	}

	var d Deposito
	if err := db.Where("perfil_id = ?", perfilID).First(&d, id).Error; err != nil {
		return err
	}
	return db.Delete(&d).Error
}

func (r *repositoryImpl) EmUso(db *gorm.DB, id uint) (bool, error) {
	var total int64
	err := db.Table("produtos").
		Where("deposito_id = ? AND deleted_at IS NULL", id).
		Count(&total).Error
	return total > 0, err
}
