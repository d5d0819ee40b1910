package deposito

import "gorm.io/gorm"

// Deposito é um local de estoque do tenant (loja, galpão, filial).
type Deposito struct {
	gorm.Model
	PerfilID  uint   `json:"perfilId" gorm:"not null;index"`
	Nome      string `json:"nome" gorm:"not null"`
	Descricao string `json:"descricao"`
	Endereco  string `json:"endereco"`
	Padrao    bool   `json:"padrao"`
	Ativo     bool   `json:"ativo" gorm:"default:true"`
}

func (Deposito) TableName() string { return "depositos" }
