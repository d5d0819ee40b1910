package perfil

import (
	"gorm.io/gorm"
)

// Tipos de perfil (códigos numéricos persistidos em perfis.tipo)
const (
	TipoRevenda uint8 = 1
	TipoERP     uint8 = 2
	TipoMaster  uint8 = 3
)

// Status de ativação de revenda
const (
	RevendaPendente uint8 = 1
	RevendaAtiva    uint8 = 2
)

// Usuario é a identidade de autenticação. Um usuário pode ter acesso a
// vários perfis (o próprio + concessões em perfis_users).
type Usuario struct {
	gorm.Model
	Nome                  string `json:"nome"`
	Email                 string `json:"email" gorm:"uniqueIndex"`
	Senha                 string `json:"-"`
	PrecisaRedefinirSenha bool   `json:"-"`
}

func (Usuario) TableName() string { return "usuarios" }

// Perfil é o registro de identidade do tenant. Um domínio (subdomínio)
// aponta para no máximo um perfil; o tipo é imutável após a criação.
type Perfil struct {
	gorm.Model
	Nome          string  `json:"nome"`
	Apelido       string  `json:"apelido"`
	Dominio       *string `json:"dominio" gorm:"uniqueIndex"`
	Tipo          uint8   `json:"tipo"`
	Foto          string  `json:"foto"`
	RevendaStatus uint8   `json:"revendaStatus"`
	UsuarioID     uint    `json:"usuarioId" gorm:"index"` // dono do perfil
}

func (Perfil) TableName() string { return "perfis" }

// PerfilUser concede acesso de um usuário a um perfil que não é dele.
type PerfilUser struct {
	gorm.Model
	PerfilID  uint `json:"perfilId" gorm:"index"`
	UsuarioID uint `json:"usuarioId" gorm:"index"`
}

func (PerfilUser) TableName() string { return "perfis_users" }
