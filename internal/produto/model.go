package produto

import (
	"gorm.io/gorm"
)

// Grupo e SubGrupo classificam os produtos do tenant.
type Grupo struct {
	gorm.Model
	PerfilID uint   `json:"perfilId" gorm:"not null;index"`
	Nome     string `json:"nome" gorm:"not null"`
}

func (Grupo) TableName() string { return "grupos" }

type SubGrupo struct {
	gorm.Model
	PerfilID uint   `json:"perfilId" gorm:"not null;index"`
	GrupoID  uint   `json:"grupoId" gorm:"not null;index"`
	Nome     string `json:"nome" gorm:"not null"`
}

func (SubGrupo) TableName() string { return "sub_grupos" }

// Produto é o item de catálogo do tenant, com imagens e duas dimensões de
// variação (ex.: cor e tamanho).
type Produto struct {
	gorm.Model
	PerfilID uint `json:"perfilId" gorm:"not null;index"`

	Nome         string  `json:"nome" gorm:"not null"`
	Descricao    string  `json:"descricao"`
	SKU          string  `json:"sku"`
	CodigoBarras string  `json:"codigoBarras"`
	Unidade      string  `json:"unidade" gorm:"size:10"`
	Preco        float64 `json:"preco"`
	PrecoCusto   float64 `json:"precoCusto"`
	Estoque      float64 `json:"estoque"`
	Ativo        bool    `json:"ativo" gorm:"default:true"`

	GrupoID    *uint `json:"grupoId" gorm:"index"`
	SubGrupoID *uint `json:"subGrupoId" gorm:"index"`
	DepositoID *uint `json:"depositoId" gorm:"index"`

	Imagens    []ProdImagem    `json:"imagens" gorm:"foreignKey:ProdutoID;constraint:OnDelete:CASCADE"`
	Variacoes1 []ProdVariacao1 `json:"variacoes1" gorm:"foreignKey:ProdutoID;constraint:OnDelete:CASCADE"`
	Variacoes2 []ProdVariacao2 `json:"variacoes2" gorm:"foreignKey:ProdutoID;constraint:OnDelete:CASCADE"`
}

func (Produto) TableName() string { return "produtos" }

type ProdImagem struct {
	gorm.Model
	ProdutoID uint   `json:"produtoId" gorm:"not null;index"`
	URL       string `json:"url" gorm:"not null"`
	Principal bool   `json:"principal"`
	Ordem     int    `json:"ordem"`
}

func (ProdImagem) TableName() string { return "prod_imagens" }

type ProdVariacao1 struct {
	gorm.Model
	ProdutoID uint   `json:"produtoId" gorm:"not null;index"`
	Nome      string `json:"nome"`
}

func (ProdVariacao1) TableName() string { return "prod_variacao1" }

type ProdVariacao2 struct {
	gorm.Model
	ProdutoID uint   `json:"produtoId" gorm:"not null;index"`
	Nome      string `json:"nome"`
}

func (ProdVariacao2) TableName() string { return "prod_variacao2" }

// TabelaPreco agrupa preços por lista (varejo, atacado, promocional...).
type TabelaPreco struct {
	gorm.Model
	PerfilID uint              `json:"perfilId" gorm:"not null;index"`
	Nome     string            `json:"nome" gorm:"not null"`
	Ativa    bool              `json:"ativa" gorm:"default:true"`
	Itens    []TabelaPrecoItem `json:"itens" gorm:"foreignKey:TabelaPrecoID;constraint:OnDelete:CASCADE"`
}

func (TabelaPreco) TableName() string { return "tabelas_precos" }

type TabelaPrecoItem struct {
	gorm.Model
	TabelaPrecoID uint    `json:"tabelaPrecoId" gorm:"not null;index"`
	ProdutoID     uint    `json:"produtoId" gorm:"not null;index"`
	Preco         float64 `json:"preco"`
}

func (TabelaPrecoItem) TableName() string { return "tabelas_precos_itens" }
