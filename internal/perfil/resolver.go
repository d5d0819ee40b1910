package perfil

import (
	"errors"
	"net"
	"strings"
)

// Mensagens fixas do fluxo de login, exibidas como estão ao usuário.
var (
	ErrNenhumPerfil       = errors.New("Nenhum perfil encontrado para este usuário")
	ErrTipoNaoReconhecido = errors.New("Tipo de perfil não reconhecido")
	ErrSemPermissao       = errors.New("Sem permissão para este perfil")
)

// Destinos pós-login por tipo de perfil.
const (
	RotaRevenda    = "/revendas/dashboard"
	RotaERP        = "/erp/dashboard"
	RotaMaster     = "/master/dashboard"
	RotaSelecionar = "/auth/selecionar-perfil"
)

// ExtrairSubdominio devolve o primeiro rótulo do hostname, ou "" quando o
// host não carrega subdomínio de tenant: localhost, endereços IP, o domínio
// base nu e o rótulo reservado "thebest" (o fluxo de login, nesses casos,
// pede que o usuário digite o domínio).
func ExtrairSubdominio(host, baseDomain string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}
	if host == baseDomain || !strings.Contains(host, ".") {
		return ""
	}
	sub := strings.SplitN(host, ".", 2)[0]
	if sub == "www" || sub == "thebest" {
		return ""
	}
	return sub
}

// RotaPorTipo mapeia o tipo numérico do perfil para o dashboard de destino.
func RotaPorTipo(tipo uint8) (string, error) {
	switch tipo {
	case TipoRevenda:
		return RotaRevenda, nil
	case TipoERP:
		return RotaERP, nil
	case TipoMaster:
		return RotaMaster, nil
	}
	return "", ErrTipoNaoReconhecido
}

// ResolverLogin decide o destino pós-login e o perfil ativo.
//
// Regras, na ordem:
//  1. Sem subdomínio: um único perfil vinculado roteia pelo tipo; vários
//     vão para o seletor; nenhum falha.
//  2. Subdomínio resolvido para um perfil: exige que o usuário tenha acesso
//     a ele (próprio ou concedido) e roteia pelo tipo desse perfil.
//  3. Subdomínio sem perfil correspondente: prefere ERP, depois Revenda,
//     depois Master entre os perfis do usuário.
func ResolverLogin(sub string, dominioPerfil *Perfil, perfisUsuario []Perfil) (string, *Perfil, error) {
	if sub == "" {
		switch len(perfisUsuario) {
		case 0:
			return "", nil, ErrNenhumPerfil
		case 1:
			rota, err := RotaPorTipo(perfisUsuario[0].Tipo)
			if err != nil {
				return "", nil, err
			}
			return rota, &perfisUsuario[0], nil
		default:
			return RotaSelecionar, nil, nil
		}
	}

	if dominioPerfil != nil {
		acesso := false
		for i := range perfisUsuario {
			if perfisUsuario[i].ID == dominioPerfil.ID {
				acesso = true
				break
			}
		}
		if !acesso {
			return "", nil, ErrSemPermissao
		}
		rota, err := RotaPorTipo(dominioPerfil.Tipo)
		if err != nil {
			return "", nil, err
		}
		return rota, dominioPerfil, nil
	}

	// fallback: subdomínio não resolve, escolhe o melhor perfil do usuário
	for _, tipo := range []uint8{TipoERP, TipoRevenda, TipoMaster} {
		for i := range perfisUsuario {
			if perfisUsuario[i].Tipo == tipo {
				rota, err := RotaPorTipo(tipo)
				if err != nil {
					return "", nil, err
				}
				return rota, &perfisUsuario[i], nil
			}
		}
	}
	return "", nil, ErrNenhumPerfil
}
