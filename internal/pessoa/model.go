package pessoa

import (
	"gorm.io/gorm"
)

// Pessoa é o cadastro de cliente/fornecedor do tenant, com as coleções
// filhas editáveis (telefones, contatos, redes sociais, anexos).
type Pessoa struct {
	gorm.Model
	PerfilID uint `json:"perfilId" gorm:"not null;index"`

	Nome       string `json:"nome"`
	Apelido    string `json:"apelido"`
	TipoPessoa string `json:"tipoPessoa" gorm:"size:10"` // "fisica" ou "juridica"
	CpfCnpj    string `json:"cpfCnpj"`
	RgIe       string `json:"rgIe"`
	Email      string `json:"email"`
	Foto       string `json:"foto"`

	Cliente        bool `json:"cliente"`
	Fornecedor     bool `json:"fornecedor"`
	Transportadora bool `json:"transportadora"`

	Cep         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	UF          string `json:"uf" gorm:"size:2"`

	Observacao string `json:"observacao"`

	Telefones    []PessoaTelefone   `json:"telefones" gorm:"foreignKey:PessoaID;constraint:OnDelete:CASCADE"`
	Contatos     []PessoaContato    `json:"contatos" gorm:"foreignKey:PessoaID;constraint:OnDelete:CASCADE"`
	RedesSociais []PessoaRedeSocial `json:"redesSociais" gorm:"foreignKey:PessoaID;constraint:OnDelete:CASCADE"`
	Anexos       []PessoaAnexo      `json:"anexos" gorm:"foreignKey:PessoaID;constraint:OnDelete:CASCADE"`
}

func (Pessoa) TableName() string { return "pessoas" }

type PessoaTelefone struct {
	gorm.Model
	PessoaID  uint   `json:"pessoaId" gorm:"not null;index"`
	Numero    string `json:"numero"`
	Descricao string `json:"descricao"`
	WhatsApp  bool   `json:"whatsapp"`
}

func (PessoaTelefone) TableName() string { return "pessoas_telefones" }

type PessoaContato struct {
	gorm.Model
	PessoaID uint   `json:"pessoaId" gorm:"not null;index"`
	Nome     string `json:"nome"`
	Cargo    string `json:"cargo"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

func (PessoaContato) TableName() string { return "pessoas_contatos" }

type PessoaRedeSocial struct {
	gorm.Model
	PessoaID uint   `json:"pessoaId" gorm:"not null;index"`
	Rede     string `json:"rede"`
	URL      string `json:"url"`
}

func (PessoaRedeSocial) TableName() string { return "pessoas_redes_sociais" }

type PessoaAnexo struct {
	gorm.Model
	PessoaID  uint   `json:"pessoaId" gorm:"not null;index"`
	Nome      string `json:"nome"`
	URL       string `json:"url"`
	Descricao string `json:"descricao"`
}

func (PessoaAnexo) TableName() string { return "pessoas_anexos" }
