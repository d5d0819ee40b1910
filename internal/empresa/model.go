package empresa

import (
	"gorm.io/gorm"

	"github.com/thebest-sistemas/api/internal/nuvemfiscal"
)

// Empresa é o emitente fiscal do tenant. RegistradaFiscal marca se o cadastro
// já foi confirmado no provedor; o provisionamento em si é preguiçoso.
type Empresa struct {
	gorm.Model
	PerfilID uint `json:"perfilId" gorm:"not null;index"`

	RazaoSocial       string `json:"razaoSocial" gorm:"not null"`
	NomeFantasia      string `json:"nomeFantasia"`
	CNPJ              string `json:"cnpj" gorm:"not null;index"`
	InscricaoEstadual string `json:"inscricaoEstadual"`
	Email             string `json:"email"`
	Telefone          string `json:"telefone"`

	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Bairro          string `json:"bairro"`
	CodigoMunicipio string `json:"codigoMunicipio"`
	Cidade          string `json:"cidade"`
	UF              string `json:"uf" gorm:"size:2"`
	CEP             string `json:"cep"`

	RegimeTributario string `json:"regimeTributario"`
	SerieNfe         int    `json:"serieNfe" gorm:"default:1"`
	ProximoNumeroNfe int    `json:"proximoNumeroNfe" gorm:"default:1"`

	RegistradaFiscal bool `json:"registradaFiscal"`
}

func (Empresa) TableName() string { return "empresas" }

// DadosFiscais converte o registro local para o cadastro do provedor.
func (e *Empresa) DadosFiscais() nuvemfiscal.DadosEmpresa {
	return nuvemfiscal.DadosEmpresa{
		CpfCnpj:           e.CNPJ,
		RazaoSocial:       e.RazaoSocial,
		NomeFantasia:      e.NomeFantasia,
		InscricaoEstadual: e.InscricaoEstadual,
		Email:             e.Email,
		Endereco: nuvemfiscal.Endereco{
			Logradouro:      e.Logradouro,
			Numero:          e.Numero,
			Bairro:          e.Bairro,
			CodigoMunicipio: e.CodigoMunicipio,
			Cidade:          e.Cidade,
			UF:              e.UF,
			CEP:             e.CEP,
		},
	}
}
