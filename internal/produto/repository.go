package produto

import "gorm.io/gorm"

type Repository interface {
	Salvar(db *gorm.DB, p *Produto) error
	BuscarPorID(db *gorm.DB, perfilID, id uint) (*Produto, error)
	Listar(db *gorm.DB, perfilID uint, pagina, limite int, busca string) ([]Produto, int64, error)
	Atualizar(db *gorm.DB, p *Produto) error
	Deletar(db *gorm.DB, perfilID, id uint) error

	SalvarGrupo(db *gorm.DB, g *Grupo) error
	ListarGrupos(db *gorm.DB, perfilID uint) ([]Grupo, error)
	DeletarGrupo(db *gorm.DB, perfilID, id uint) error

	SalvarSubGrupo(db *gorm.DB, s *SubGrupo) error
	ListarSubGrupos(db *gorm.DB, perfilID, grupoID uint) ([]SubGrupo, error)
	DeletarSubGrupo(db *gorm.DB, perfilID, id uint) error

	SalvarTabelaPreco(db *gorm.DB, t *TabelaPreco) error
	BuscarTabelaPrecoPorID(db *gorm.DB, perfilID, id uint) (*TabelaPreco, error)
	ListarTabelasPreco(db *gorm.DB, perfilID uint) ([]TabelaPreco, error)
	DeletarTabelaPreco(db *gorm.DB, perfilID, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Produto) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, perfilID, id uint) (*Produto, error) {
	var p Produto
	err := db.Preload("Imagens").Preload("Variacoes1").Preload("Variacoes2").
		Where("perfil_id = ?", perfilID).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, perfilID uint, pagina, limite int, busca string) ([]Produto, int64, error) {
	var produtos []Produto
	var total int64

	query := db.Model(&Produto{}).Where("perfil_id = ?", perfilID)
	if busca != "" {
		like := "%" + busca + "%"
		query = query.Where("nome LIKE ? OR sku LIKE ? OR codigo_barras LIKE ?", like, like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Imagens").
		Order("nome").
		Offset((pagina - 1) * limite).Limit(limite).
		Find(&produtos).Error
	return produtos, total, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, p *Produto) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Imagens", "Variacoes1", "Variacoes2").Save(p).Error; err != nil {
			return err
		}
		if err := sincronizarFilhos(tx, p.ID, p.Imagens); err != nil {
			return err
		}
		if err := sincronizarFilhos(tx, p.ID, p.Variacoes1); err != nil {
			return err
		}
		return sincronizarFilhos(tx, p.ID, p.Variacoes2)
	})
}

// sincronizarFilhos substitui a coleção inteira: remove as linhas do produto e
// regrava as enviadas.
func sincronizarFilhos[T any](tx *gorm.DB, produtoID uint, itens []T) error {
	var modelo T
	if err := tx.Unscoped().Where("produto_id = ?", produtoID).Delete(&modelo).Error; err != nil {
		return err
	}
	if len(itens) == 0 {
		return nil
	}
	return tx.Create(&itens).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, perfilID, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p Produto
		if err := tx.Where("perfil_id = ?", perfilID).First(&p, id).Error; err != nil {
			return err
		}
		if err := tx.Where("produto_id = ?", id).Delete(&ProdImagem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("produto_id = ?", id).Delete(&ProdVariacao1{}).Error; err != nil {
			return err
		}
		if err := tx.Where("produto_id = ?", id).Delete(&ProdVariacao2{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

func (r *repositoryImpl) SalvarGrupo(db *gorm.DB, g *Grupo) error {
	return db.Save(g).Error
}

func (r *repositoryImpl) ListarGrupos(db *gorm.DB, perfilID uint) ([]Grupo, error) {
	var grupos []Grupo
	err := db.Where("perfil_id = ?", perfilID).Order("nome").Find(&grupos).Error
	return grupos, err
}

func (r *repositoryImpl) DeletarGrupo(db *gorm.DB, perfilID, id uint) error {
	var emUso int64
	if err := db.Model(&Produto{}).Where("perfil_id = ? AND grupo_id = ?", perfilID, id).Count(&emUso).Error; err != nil {
		return err
	}
	if emUso > 0 {
		return gorm.ErrForeignKeyViolated
	}
	return db.Where("perfil_id = ?", perfilID).Delete(&Grupo{}, id).Error
}

func (r *repositoryImpl) SalvarSubGrupo(db *gorm.DB, s *SubGrupo) error {
	return db.Save(s).Error
}

func (r *repositoryImpl) ListarSubGrupos(db *gorm.DB, perfilID, grupoID uint) ([]SubGrupo, error) {
	var subgrupos []SubGrupo
	query := db.Where("perfil_id = ?", perfilID)
	if grupoID > 0 {
		query = query.Where("grupo_id = ?", grupoID)
	}
	err := query.Order("nome").Find(&subgrupos).Error
	return subgrupos, err
}

func (r *repositoryImpl) DeletarSubGrupo(db *gorm.DB, perfilID, id uint) error {
	var emUso int64
	if err := db.Model(&Produto{}).Where("perfil_id = ? AND sub_grupo_id = ?", perfilID, id).Count(&emUso).Error; err != nil {
		return err
	}
	if emUso > 0 {
		return gorm.ErrForeignKeyViolated
	}
	return db.Where("perfil_id = ?", perfilID).Delete(&SubGrupo{}, id).Error
}

func (r *repositoryImpl) SalvarTabelaPreco(db *gorm.DB, t *TabelaPreco) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if t.ID > 0 {
			if err := tx.Unscoped().Where("tabela_preco_id = ?", t.ID).Delete(&TabelaPrecoItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(t).Error
	})
}

func (r *repositoryImpl) BuscarTabelaPrecoPorID(db *gorm.DB, perfilID, id uint) (*TabelaPreco, error) {
	var t TabelaPreco
	err := db.Preload("Itens").Where("perfil_id = ?", perfilID).First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repositoryImpl) ListarTabelasPreco(db *gorm.DB, perfilID uint) ([]TabelaPreco, error) {
	var tabelas []TabelaPreco
	err := db.Where("perfil_id = ?", perfilID).Order("nome").Find(&tabelas).Error
	return tabelas, err
}

func (r *repositoryImpl) DeletarTabelaPreco(db *gorm.DB, perfilID, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var t TabelaPreco
		if err := tx.Where("perfil_id = ?", perfilID).First(&t, id).Error; err != nil {
			return err
		}
		if err := tx.Where("tabela_preco_id = ?", id).Delete(&TabelaPrecoItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
}
