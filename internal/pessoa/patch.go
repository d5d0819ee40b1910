package pessoa

import "gorm.io/gorm"

// Patch descreve as mudanças de uma coleção filha, calculadas uma única vez
// no momento de salvar: linhas novas, linhas alteradas e IDs removidos.
type Patch[T any] struct {
	Adicionar  []T    `json:"adicionar"`
	Alterar    []T    `json:"alterar"`
	RemoverIDs []uint `json:"removerIds"`
}

func (p Patch[T]) Vazio() bool {
	return len(p.Adicionar) == 0 && len(p.Alterar) == 0 && len(p.RemoverIDs) == 0
}

// aplicarPatch grava as mudanças de uma coleção dentro da transação.
func aplicarPatch[T any](tx *gorm.DB, p Patch[T]) error {
	if len(p.Adicionar) > 0 {
		if err := tx.Create(&p.Adicionar).Error; err != nil {
			return err
		}
	}
	for i := range p.Alterar {
		if err := tx.Save(&p.Alterar[i]).Error; err != nil {
			return err
		}
	}
	if len(p.RemoverIDs) > 0 {
		if err := tx.Delete(new(T), p.RemoverIDs).Error; err != nil {
			return err
		}
	}
	return nil
}
