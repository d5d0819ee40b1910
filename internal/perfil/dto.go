package perfil

// PerfilPublico é o subconjunto do perfil resolvível anonimamente por
// subdomínio, usado para marcar a tela de login antes da autenticação.
type PerfilPublico struct {
	Nome    string  `json:"nome"`
	Apelido string  `json:"apelido"`
	Dominio *string `json:"dominio"`
	Foto    string  `json:"foto"`
}

func NovoPerfilPublico(p *Perfil) PerfilPublico {
	return PerfilPublico{
		Nome:    p.Nome,
		Apelido: p.Apelido,
		Dominio: p.Dominio,
		Foto:    p.Foto,
	}
}

type LoginRequest struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
	Host  string `json:"host"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Destino string  `json:"destino"`
	Perfil  *Perfil `json:"perfil,omitempty"`
}

type criarPerfilRequest struct {
	Nome        string  `json:"nome"`
	Apelido     string  `json:"apelido"`
	Dominio     *string `json:"dominio"`
	Tipo        uint8   `json:"tipo"`
	Foto        string  `json:"foto"`
	NomeUsuario string  `json:"nomeUsuario"`
	Email       string  `json:"email"`
	Senha       string  `json:"senha"`
}

type selecionarPerfilRequest struct {
	PerfilID uint `json:"perfilId"`
}
