package perfil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/thebest-sistemas/api/internal/auth"
	"github.com/thebest-sistemas/api/internal/database"
	"github.com/thebest-sistemas/api/internal/utils"
)

// Handler encapsula DB, repository e o cache de resolução por domínio.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Cache      *database.Cache
	BaseDomain string
}

// NewHandler retorna um handler inicializado. Cache pode ser nil (sem redis).
func NewHandler(db *gorm.DB, cache *database.Cache, baseDomain string) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Cache:      cache,
		BaseDomain: baseDomain,
	}
}

// Login autentica e decide o dashboard de destino (ver ResolverLogin).
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	user, err := h.Repository.BuscarUsuarioPorEmail(h.DB, req.Login)
	if err != nil {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}
	if !utils.VerificarSenha(user.Senha, req.Senha) {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}

	perfis, err := h.Repository.ListarPorUsuario(h.DB, user.ID)
	if err != nil {
		http.Error(w, "erro ao buscar perfis", http.StatusInternalServerError)
		return
	}

	sub := ExtrairSubdominio(req.Host, h.BaseDomain)
	var dominioPerfil *Perfil
	if sub != "" {
		if p, err := h.Repository.BuscarPorDominio(h.DB, sub); err == nil {
			dominioPerfil = p
		}
	}

	rota, ativo, err := ResolverLogin(sub, dominioPerfil, perfis)
	if err != nil {
		switch {
		case errors.Is(err, ErrSemPermissao):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		}
		return
	}

	var perfilID uint
	var perfilTipo uint8
	if ativo != nil {
		perfilID = ativo.ID
		perfilTipo = ativo.Tipo
	}
	token, err := auth.GerarToken(user.ID, perfilID, perfilTipo)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: token, Destino: rota, Perfil: ativo})
}

// PerfilPublico resolve a marca do tenant por domínio, sem autenticação.
func (h *Handler) PerfilPublico(w http.ResponseWriter, r *http.Request) {
	dominio := r.URL.Query().Get("dominio")
	if dominio == "" {
		http.Error(w, "dominio obrigatório", http.StatusBadRequest)
		return
	}

	key := database.CacheKeyPerfilDominio + dominio
	if h.Cache != nil {
		var pub PerfilPublico
		if err := h.Cache.Get(r.Context(), key, &pub); err == nil {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(pub)
			return
		}
	}

	p, err := h.Repository.BuscarPorDominio(h.DB, dominio)
	if err != nil {
		http.Error(w, "perfil não encontrado", http.StatusNotFound)
		return
	}
	pub := NovoPerfilPublico(p)

	if h.Cache != nil {
		_ = h.Cache.Set(r.Context(), key, pub, database.CacheTTLPerfilDominio)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pub)
}

// CriarPerfil cadastra usuário + perfil (auto-registro ERP/revenda).
func (h *Handler) CriarPerfil(w http.ResponseWriter, r *http.Request) {
	var req criarPerfilRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if _, err := RotaPorTipo(req.Tipo); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Senha == "" {
		http.Error(w, "e-mail e senha são obrigatórios", http.StatusBadRequest)
		return
	}

	hash, err := utils.HashSenha(req.Senha)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	if _, err := h.Repository.BuscarUsuarioPorEmail(h.DB, req.Email); err == nil {
		http.Error(w, "e-mail já cadastrado", http.StatusConflict)
		return
	}

	status := uint8(0)
	if req.Tipo == TipoRevenda {
		status = RevendaPendente
	}

	u := Usuario{Nome: req.NomeUsuario, Email: req.Email, Senha: hash}
	p := Perfil{
		Nome:          req.Nome,
		Apelido:       req.Apelido,
		Dominio:       req.Dominio,
		Tipo:          req.Tipo,
		Foto:          req.Foto,
		RevendaStatus: status,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.SalvarUsuario(tx, &u); err != nil {
			return err
		}
		p.UsuarioID = u.ID
		return h.Repository.Salvar(tx, &p)
	})
	if err != nil {
		http.Error(w, "erro ao salvar perfil", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// MeusPerfis lista os perfis acessíveis ao usuário logado (tela de seleção).
func (h *Handler) MeusPerfis(w http.ResponseWriter, r *http.Request) {
	usuarioID := auth.UsuarioID(r.Context())

	perfis, err := h.Repository.ListarPorUsuario(h.DB, usuarioID)
	if err != nil {
		http.Error(w, "erro ao buscar perfis", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(perfis)
}

// SelecionarPerfil fixa o perfil ativo reemitindo o token.
func (h *Handler) SelecionarPerfil(w http.ResponseWriter, r *http.Request) {
	usuarioID := auth.UsuarioID(r.Context())

	var req selecionarPerfilRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	ok, err := h.Repository.TemAcesso(h.DB, usuarioID, req.PerfilID)
	if err != nil {
		http.Error(w, "erro ao verificar acesso", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, ErrSemPermissao.Error(), http.StatusForbidden)
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, req.PerfilID)
	if err != nil {
		http.Error(w, "perfil não encontrado", http.StatusNotFound)
		return
	}
	rota, err := RotaPorTipo(p.Tipo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	token, err := auth.GerarToken(usuarioID, p.ID, p.Tipo)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: token, Destino: rota, Perfil: p})
}

// BuscarPorID retorna um perfil pelo ID (apenas quem tem acesso).
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	usuarioID := auth.UsuarioID(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	ok, err := h.Repository.TemAcesso(h.DB, usuarioID, uint(id))
	if err != nil || !ok {
		http.Error(w, "acesso negado", http.StatusForbidden)
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "perfil não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Atualizar altera os dados do perfil. Tipo nunca muda por esta rota.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	usuarioID := auth.UsuarioID(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	ok, err := h.Repository.TemAcesso(h.DB, usuarioID, uint(id))
	if err != nil || !ok {
		http.Error(w, "acesso negado", http.StatusForbidden)
		return
	}

	var dados Perfil
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "perfil não encontrado", http.StatusNotFound)
		return
	}

	existente.Nome = dados.Nome
	existente.Apelido = dados.Apelido
	existente.Foto = dados.Foto
	existente.Dominio = dados.Dominio

	if err := h.Repository.Salvar(h.DB, existente); err != nil {
		http.Error(w, "erro ao atualizar perfil", http.StatusInternalServerError)
		return
	}

	if h.Cache != nil && existente.Dominio != nil {
		_ = h.Cache.Delete(r.Context(), database.CacheKeyPerfilDominio+*existente.Dominio)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}
