package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Configurar define o segredo usado para assinar e validar tokens.
// Deve ser chamada uma vez na inicialização.
func Configurar(secret string) {
	jwtSecret = []byte(secret)
}

type Claims struct {
	UsuarioID  uint  `json:"usuario_id"`
	PerfilID   uint  `json:"perfil_id"`
	PerfilTipo uint8 `json:"perfil_tipo"`
	jwt.RegisteredClaims
}

// GerarToken gera um JWT com validade de 24h amarrado ao perfil ativo.
func GerarToken(usuarioID, perfilID uint, perfilTipo uint8) (string, error) {
	claims := &Claims{
		UsuarioID:  usuarioID,
		PerfilID:   perfilID,
		PerfilTipo: perfilTipo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "thebest",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidarToken valida o token e retorna as claims.
func ValidarToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token inválido ou expirado: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("não foi possível extrair claims")
	}
	return claims, nil
}
