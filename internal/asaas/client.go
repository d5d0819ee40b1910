// Package asaas é o wrapper fino sobre a API REST do gateway de pagamento:
// clientes, cobranças, QR code PIX e subcontas. Respostas são decodificadas
// em tipos por endpoint na borda; erros carregam a mensagem crua do provedor.
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	URLSandbox  = "https://api-sandbox.asaas.com/v3"
	URLProducao = "https://api.asaas.com/v3"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient monta o cliente do gateway. env "producao" aponta para a API
// real; qualquer outro valor usa o sandbox.
func NewClient(httpClient *http.Client, env, apiKey string) *Client {
	baseURL := URLSandbox
	if env == "producao" {
		baseURL = URLProducao
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// NewClientComBaseURL é usado nos testes para apontar para um servidor fake.
func NewClientComBaseURL(httpClient *http.Client, baseURL, apiKey string) *Client {
	c := NewClient(httpClient, "", apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	body, err := c.doRaw(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) doRaw(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ErroAPI{Status: resp.StatusCode, Mensagem: mensagemDeErro(body)}
	}
	return body, nil
}

// mensagemDeErro extrai a primeira description de {errors:[...]}, ou devolve
// o corpo cru quando o formato não bate.
func mensagemDeErro(body []byte) string {
	var parsed erroresResposta
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		return parsed.Errors[0].Description
	}
	return string(body)
}

// CriarCliente cadastra um customer no gateway.
func (c *Client) CriarCliente(ctx context.Context, novo NovoCliente) (*Cliente, error) {
	var cliente Cliente
	if err := c.do(ctx, http.MethodPost, "/customers", novo, &cliente); err != nil {
		return nil, err
	}
	return &cliente, nil
}

// BuscarClientePorCpfCnpj procura um customer existente. Retorna nil (sem
// erro) quando não há nenhum.
func (c *Client) BuscarClientePorCpfCnpj(ctx context.Context, cpfCnpj string) (*Cliente, error) {
	var lista listaClientes
	path := "/customers?cpfCnpj=" + url.QueryEscape(cpfCnpj)
	if err := c.do(ctx, http.MethodGet, path, nil, &lista); err != nil {
		return nil, err
	}
	if len(lista.Data) == 0 {
		return nil, nil
	}
	return &lista.Data[0], nil
}

// ObterOuCriarCliente busca por CPF/CNPJ e cadastra quando não existe.
func (c *Client) ObterOuCriarCliente(ctx context.Context, novo NovoCliente) (*Cliente, error) {
	cliente, err := c.BuscarClientePorCpfCnpj(ctx, novo.CpfCnpj)
	if err != nil {
		return nil, err
	}
	if cliente != nil {
		return cliente, nil
	}
	return c.CriarCliente(ctx, novo)
}

// CriarCobranca cria um payment no gateway.
func (c *Client) CriarCobranca(ctx context.Context, nova NovaCobranca) (*Cobranca, error) {
	var cobranca Cobranca
	if err := c.do(ctx, http.MethodPost, "/payments", nova, &cobranca); err != nil {
		return nil, err
	}
	return &cobranca, nil
}

// ObterQrCodePix busca o QR code de uma cobrança PIX.
func (c *Client) ObterQrCodePix(ctx context.Context, cobrancaID string) (*PixQrCode, error) {
	var qr PixQrCode
	path := fmt.Sprintf("/payments/%s/pixQrCode", cobrancaID)
	if err := c.do(ctx, http.MethodGet, path, nil, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

// ObterLinhaDigitavel busca a linha digitável de um boleto.
func (c *Client) ObterLinhaDigitavel(ctx context.Context, cobrancaID string) (*LinhaDigitavel, error) {
	var linha LinhaDigitavel
	path := fmt.Sprintf("/payments/%s/identificationField", cobrancaID)
	if err := c.do(ctx, http.MethodGet, path, nil, &linha); err != nil {
		return nil, err
	}
	return &linha, nil
}

// CriarSubconta cria uma conta white-label vinculada à wallet principal.
func (c *Client) CriarSubconta(ctx context.Context, nova NovaSubconta) (*Subconta, error) {
	var conta Subconta
	if err := c.do(ctx, http.MethodPost, "/accounts", nova, &conta); err != nil {
		return nil, err
	}
	return &conta, nil
}

// StatusSubconta consulta a situação cadastral de uma subconta.
func (c *Client) StatusSubconta(ctx context.Context, contaID string) (*StatusConta, error) {
	var status StatusConta
	path := "/accounts/status?id=" + url.QueryEscape(contaID)
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
