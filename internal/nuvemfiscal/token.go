package nuvemfiscal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// margem de segurança antes do vencimento do access token
const margemExpiracao = 60 * time.Second

type tokenCache struct {
	mu       sync.Mutex
	token    string
	expiraEm time.Time
}

type tokenResposta struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// obterToken devolve o token em cache ou busca um novo via client_credentials.
func (c *Client) obterToken(ctx context.Context) (string, error) {
	c.tokens.mu.Lock()
	defer c.tokens.mu.Unlock()

	if c.tokens.token != "" && time.Now().Before(c.tokens.expiraEm.Add(-margemExpiracao)) {
		return c.tokens.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("scope", "empresa nfe")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nuvem fiscal auth %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResposta
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("resposta de token inválida: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("resposta de token sem access_token")
	}

	c.tokens.token = tr.AccessToken
	c.tokens.expiraEm = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.tokens.token, nil
}
