package cobranca

import (
	"time"

	"gorm.io/gorm"
)

// Cobranca é o espelho local de um payment do gateway, amarrado ao perfil
// pagador e a um tipo de cobrança (ex.: ativação de revenda). O flag Pago é
// escrito apenas pelo webhook do gateway; cobranças nunca são apagadas.
type Cobranca struct {
	gorm.Model
	PerfilID          uint       `json:"perfilId" gorm:"index"`
	Tipo              string     `json:"tipo" gorm:"size:50;index"`
	Valor             float64    `json:"valor"`
	Vencimento        time.Time  `json:"vencimento"`
	Pago              bool       `json:"pago"`
	PagoEm            *time.Time `json:"pagoEm"`
	AsaasID           string     `json:"asaasId" gorm:"uniqueIndex"`
	ExternalReference string     `json:"externalReference"`
	QrCodePix         string     `json:"qrCodePix"`
	CopiaECola        string     `json:"copiaECola"`
	RespostaGateway   string     `json:"respostaGateway"` // payload cru da resposta do gateway
}

func (Cobranca) TableName() string { return "cobrancas" }

// AsaasCliente é o espelho local do customer remoto de um perfil.
type AsaasCliente struct {
	gorm.Model
	PerfilID uint   `json:"perfilId" gorm:"uniqueIndex"`
	AsaasID  string `json:"asaasId"`
	CpfCnpj  string `json:"cpfCnpj"`
}

func (AsaasCliente) TableName() string { return "asaas_clientes" }

// AsaasConta é o espelho local de uma subconta white-label.
type AsaasConta struct {
	gorm.Model
	PerfilID uint   `json:"perfilId" gorm:"uniqueIndex"`
	AsaasID  string `json:"asaasId"`
	WalletID string `json:"walletId"`
	ApiKey   string `json:"-"`
}

func (AsaasConta) TableName() string { return "asaas_contas" }
