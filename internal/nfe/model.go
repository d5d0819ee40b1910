package nfe

import "gorm.io/gorm"

// NotaFiscal é o espelho local de uma NFe enviada ao provedor. Status segue o
// provedor: pendente, autorizado, rejeitado, cancelado.
type NotaFiscal struct {
	gorm.Model
	PerfilID  uint `json:"perfilId" gorm:"not null;index"`
	EmpresaID uint `json:"empresaId" gorm:"not null;index"`

	Numero int    `json:"numero"`
	Serie  int    `json:"serie"`
	Status string `json:"status"`

	NuvemFiscalID string `json:"nuvemFiscalId" gorm:"index"`
	ChaveAcesso   string `json:"chaveAcesso"`
	MotivoStatus  string `json:"motivoStatus"`
	Payload       string `json:"payload"`
}

func (NotaFiscal) TableName() string { return "nfe" }
