package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxUsuarioID  ctxKey = "usuarioID"
	CtxPerfilID   ctxKey = "perfilID"
	CtxPerfilTipo ctxKey = "perfilTipo"
)

func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ValidarToken(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUsuarioID, claims.UsuarioID)
		ctx = context.WithValue(ctx, CtxPerfilID, claims.PerfilID)
		ctx = context.WithValue(ctx, CtxPerfilTipo, claims.PerfilTipo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireTipo restringe a rota a tokens emitidos para um perfil do tipo dado.
// É o portão de área: rotas /revendas exigem perfil Revenda, /master exige Master.
func RequireTipo(tipo uint8) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, _ := r.Context().Value(CtxPerfilTipo).(uint8)
			if v != tipo {
				http.Error(w, "acesso negado", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UsuarioID extrai o usuário autenticado do contexto.
func UsuarioID(ctx context.Context) uint {
	v, _ := ctx.Value(CtxUsuarioID).(uint)
	return v
}

// PerfilID extrai o perfil ativo do contexto.
func PerfilID(ctx context.Context) uint {
	v, _ := ctx.Value(CtxPerfilID).(uint)
	return v
}
