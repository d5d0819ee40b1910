package perfil

import (
	"gorm.io/gorm"
)

type Repository interface {
	SalvarUsuario(db *gorm.DB, u *Usuario) error
	BuscarUsuarioPorEmail(db *gorm.DB, email string) (*Usuario, error)

	Salvar(db *gorm.DB, p *Perfil) error
	BuscarPorID(db *gorm.DB, id uint) (*Perfil, error)
	BuscarPorDominio(db *gorm.DB, dominio string) (*Perfil, error)
	ListarPorUsuario(db *gorm.DB, usuarioID uint) ([]Perfil, error)
	TemAcesso(db *gorm.DB, usuarioID, perfilID uint) (bool, error)
	AtualizarRevendaStatus(db *gorm.DB, perfilID uint, status uint8) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) SalvarUsuario(db *gorm.DB, u *Usuario) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) BuscarUsuarioPorEmail(db *gorm.DB, email string) (*Usuario, error) {
	var u Usuario
	err := db.Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Perfil) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Perfil, error) {
	var p Perfil
	err := db.First(&p, id).Error
	return &p, err
}

func (r *repositoryImpl) BuscarPorDominio(db *gorm.DB, dominio string) (*Perfil, error) {
	var p Perfil
	err := db.Where("dominio = ?", dominio).First(&p).Error
	return &p, err
}

// ListarPorUsuario retorna os perfis do usuário: os que ele é dono mais os
// concedidos via perfis_users.
func (r *repositoryImpl) ListarPorUsuario(db *gorm.DB, usuarioID uint) ([]Perfil, error) {
	concedidos := db.Session(&gorm.Session{NewDB: true}).
		Model(&PerfilUser{}).
		Select("perfil_id").
		Where("usuario_id = ?", usuarioID)

	var perfis []Perfil
	err := db.Where("usuario_id = ? OR id IN (?)", usuarioID, concedidos).
		Order("id ASC").
		Find(&perfis).Error
	return perfis, err
}

func (r *repositoryImpl) TemAcesso(db *gorm.DB, usuarioID, perfilID uint) (bool, error) {
	var count int64
	err := db.Model(&Perfil{}).
		Where("id = ? AND usuario_id = ?", perfilID, usuarioID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = db.Model(&PerfilUser{}).
		Where("perfil_id = ? AND usuario_id = ?", perfilID, usuarioID).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) AtualizarRevendaStatus(db *gorm.DB, perfilID uint, status uint8) error {
	return db.Model(&Perfil{}).
		Where("id = ?", perfilID).
		Update("revenda_status", status).Error
}
