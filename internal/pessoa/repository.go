package pessoa

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, p *Pessoa) error
	BuscarPorID(db *gorm.DB, perfilID, id uint) (*Pessoa, error)
	Listar(db *gorm.DB, perfilID uint, busca string, offset, limit int) ([]Pessoa, int64, error)
	Atualizar(db *gorm.DB, p *Pessoa, req *AtualizarRequest) error
	Deletar(db *gorm.DB, perfilID, id uint) error
}

// AtualizarRequest carrega os dados escalares e os patches das coleções
// filhas de uma pessoa.
type AtualizarRequest struct {
	Dados        Pessoa                  `json:"dados"`
	Telefones    Patch[PessoaTelefone]   `json:"telefones"`
	Contatos     Patch[PessoaContato]    `json:"contatos"`
	RedesSociais Patch[PessoaRedeSocial] `json:"redesSociais"`
	Anexos       Patch[PessoaAnexo]      `json:"anexos"`
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Pessoa) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, perfilID, id uint) (*Pessoa, error) {
	var p Pessoa
	err := db.Preload("Telefones").
		Preload("Contatos").
		Preload("RedesSociais").
		Preload("Anexos").
		Where("perfil_id = ?", perfilID).
		First(&p, id).Error
	return &p, err
}

func (r *repositoryImpl) Listar(db *gorm.DB, perfilID uint, busca string, offset, limit int) ([]Pessoa, int64, error) {
	query := db.Model(&Pessoa{}).Where("perfil_id = ?", perfilID)
	if busca != "" {
		padrao := "%" + busca + "%"
		query = query.Where("nome LIKE ? OR apelido LIKE ? OR cpf_cnpj LIKE ?", padrao, padrao, padrao)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pessoas []Pessoa
	err := query.Order("nome ASC").Offset(offset).Limit(limit).Find(&pessoas).Error
	return pessoas, total, err
}

// Atualizar grava os campos escalares e aplica os patches das coleções
// filhas numa única transação.
func (r *repositoryImpl) Atualizar(db *gorm.DB, p *Pessoa, req *AtualizarRequest) error {
	return db.Transaction(func(tx *gorm.DB) error {
		d := req.Dados
		p.Nome = d.Nome
		p.Apelido = d.Apelido
		p.TipoPessoa = d.TipoPessoa
		p.CpfCnpj = d.CpfCnpj
		p.RgIe = d.RgIe
		p.Email = d.Email
		p.Foto = d.Foto
		p.Cliente = d.Cliente
		p.Fornecedor = d.Fornecedor
		p.Transportadora = d.Transportadora
		p.Cep = d.Cep
		p.Logradouro = d.Logradouro
		p.Numero = d.Numero
		p.Complemento = d.Complemento
		p.Bairro = d.Bairro
		p.Cidade = d.Cidade
		p.UF = d.UF
		p.Observacao = d.Observacao

		// associações ficam por conta dos patches
		if err := tx.Omit("Telefones", "Contatos", "RedesSociais", "Anexos").Save(p).Error; err != nil {
			return err
		}

		for i := range req.Telefones.Adicionar {
			req.Telefones.Adicionar[i].PessoaID = p.ID
		}
		for i := range req.Contatos.Adicionar {
			req.Contatos.Adicionar[i].PessoaID = p.ID
		}
		for i := range req.RedesSociais.Adicionar {
			req.RedesSociais.Adicionar[i].PessoaID = p.ID
		}
		for i := range req.Anexos.Adicionar {
			req.Anexos.Adicionar[i].PessoaID = p.ID
		}

		if err := aplicarPatch(tx, req.Telefones); err != nil {
			return err
		}
		if err := aplicarPatch(tx, req.Contatos); err != nil {
			return err
		}
		if err := aplicarPatch(tx, req.RedesSociais); err != nil {
			return err
		}
		return aplicarPatch(tx, req.Anexos)
	})
}

func (r *repositoryImpl) Deletar(db *gorm.DB, perfilID, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p Pessoa
		if err := tx.Where("perfil_id = ?", perfilID).First(&p, id).Error; err != nil {
			return err
		}
		for _, filho := range []interface{}{
			&PessoaTelefone{}, &PessoaContato{}, &PessoaRedeSocial{}, &PessoaAnexo{},
		} {
			if err := tx.Where("pessoa_id = ?", p.ID).Delete(filho).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&p).Error
	})
}
