// Package nuvemfiscal é o wrapper fino sobre a API de emissão fiscal:
// cadastro de empresa, certificado digital e NFe. Empresas são provisionadas
// de forma preguiçosa: um 404 do provedor dispara o cadastro e a chamada
// original é repetida uma vez.
package nuvemfiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	URLProducao     = "https://api.nuvemfiscal.com.br"
	URLHomologacao  = "https://api.sandbox.nuvemfiscal.com.br"
	URLAutenticacao = "https://auth.nuvemfiscal.com.br/oauth/token"
)

// ErroAPI carrega o status e o corpo devolvidos pelo provedor fiscal.
type ErroAPI struct {
	Status   int
	Mensagem string
}

func (e *ErroAPI) Error() string {
	return fmt.Sprintf("nuvem fiscal %d: %s", e.Status, e.Mensagem)
}

// EhNaoEncontrado informa se o erro é um 404 do provedor.
func EhNaoEncontrado(err error) bool {
	var apiErr *ErroAPI
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// DadosEmpresa é o cadastro mínimo exigido pelo provedor.
type DadosEmpresa struct {
	CpfCnpj           string   `json:"cpf_cnpj"`
	RazaoSocial       string   `json:"razao_social"`
	NomeFantasia      string   `json:"nome_fantasia,omitempty"`
	InscricaoEstadual string   `json:"inscricao_estadual,omitempty"`
	Email             string   `json:"email,omitempty"`
	Endereco          Endereco `json:"endereco"`
}

type Endereco struct {
	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Bairro          string `json:"bairro"`
	CodigoMunicipio string `json:"codigo_municipio"`
	Cidade          string `json:"cidade"`
	UF              string `json:"uf"`
	CEP             string `json:"cep"`
}

// Certificado é a resposta de consulta/upload de certificado digital.
type Certificado struct {
	SerialNumber   string `json:"serial_number"`
	IssuerName     string `json:"issuer_name"`
	SubjectName    string `json:"subject_name"`
	NotValidBefore string `json:"not_valid_before"`
	NotValidAfter  string `json:"not_valid_after"`
	CpfCnpj        string `json:"cpf_cnpj"`
}

type enviarCertificadoRequest struct {
	Certificado string `json:"certificado"` // .pfx em base64
	Password    string `json:"password"`
}

// Nfe é o envelope de emissão/consulta devolvido pelo provedor.
type Nfe struct {
	ID                string          `json:"id"`
	Ambiente          string          `json:"ambiente"`
	Status            string          `json:"status"`
	ChaveAcesso       string          `json:"chave"`
	NumeroProtocolo   string          `json:"numero_protocolo"`
	MotivoStatus      string          `json:"motivo_status"`
	PayloadAutorizado json.RawMessage `json:"autorizacao,omitempty"`
}

type pedidoNfe struct {
	Ambiente string          `json:"ambiente"`
	InfNfe   json.RawMessage `json:"infNFe"`
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	authURL      string
	clientID     string
	clientSecret string
	ambiente     string
	tokens       tokenCache
}

// NewClient monta o cliente fiscal. ambiente "producao" usa a API real;
// qualquer outro valor usa homologação.
func NewClient(httpClient *http.Client, ambiente, clientID, clientSecret string) *Client {
	baseURL := URLHomologacao
	if ambiente == "producao" {
		baseURL = URLProducao
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		authURL:      URLAutenticacao,
		clientID:     clientID,
		clientSecret: clientSecret,
		ambiente:     ambiente,
	}
}

// NewClientComBaseURL é usado nos testes para apontar para servidores fake.
func NewClientComBaseURL(httpClient *http.Client, baseURL, authURL string) *Client {
	c := NewClient(httpClient, "homologacao", "id-teste", "segredo-teste")
	c.baseURL = baseURL
	c.authURL = authURL
	return c
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	token, err := c.obterToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ErroAPI{Status: resp.StatusCode, Mensagem: string(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// CadastrarEmpresa registra a empresa no provedor.
func (c *Client) CadastrarEmpresa(ctx context.Context, emp DadosEmpresa) error {
	return c.do(ctx, http.MethodPost, "/empresas", emp, nil)
}

// ConsultarEmpresa busca o cadastro da empresa por CNPJ.
func (c *Client) ConsultarEmpresa(ctx context.Context, cpfCnpj string) (*DadosEmpresa, error) {
	var emp DadosEmpresa
	if err := c.do(ctx, http.MethodGet, "/empresas/"+cpfCnpj, nil, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// GarantirEmpresa cadastra a empresa se ela ainda não existe no provedor.
func (c *Client) GarantirEmpresa(ctx context.Context, emp DadosEmpresa) error {
	_, err := c.ConsultarEmpresa(ctx, emp.CpfCnpj)
	if err == nil {
		return nil
	}
	if !EhNaoEncontrado(err) {
		return err
	}
	return c.CadastrarEmpresa(ctx, emp)
}

// ConsultarCertificado devolve o certificado da empresa, ou nil quando
// nenhum foi enviado ainda. Um 404 provoca o cadastro da empresa e uma
// nova consulta; o segundo 404 significa "sem certificado".
func (c *Client) ConsultarCertificado(ctx context.Context, emp DadosEmpresa) (*Certificado, error) {
	path := "/empresas/" + emp.CpfCnpj + "/certificado"

	var cert Certificado
	err := c.do(ctx, http.MethodGet, path, nil, &cert)
	if err == nil {
		return &cert, nil
	}
	if !EhNaoEncontrado(err) {
		return nil, err
	}

	if err := c.GarantirEmpresa(ctx, emp); err != nil {
		return nil, err
	}

	err = c.do(ctx, http.MethodGet, path, nil, &cert)
	if err == nil {
		return &cert, nil
	}
	if EhNaoEncontrado(err) {
		return nil, nil
	}
	return nil, err
}

// EnviarCertificado sobe o .pfx (base64) da empresa, cadastrando-a antes
// se necessário.
func (c *Client) EnviarCertificado(ctx context.Context, emp DadosEmpresa, pfxBase64, senha string) (*Certificado, error) {
	path := "/empresas/" + emp.CpfCnpj + "/certificado"
	payload := enviarCertificadoRequest{Certificado: pfxBase64, Password: senha}

	var cert Certificado
	err := c.do(ctx, http.MethodPut, path, payload, &cert)
	if err == nil {
		return &cert, nil
	}
	if !EhNaoEncontrado(err) {
		return nil, err
	}

	if err := c.GarantirEmpresa(ctx, emp); err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodPut, path, payload, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

// ExcluirCertificado remove o certificado. 404 do provedor vale como
// sucesso: já não havia certificado.
func (c *Client) ExcluirCertificado(ctx context.Context, cpfCnpj string) error {
	err := c.do(ctx, http.MethodDelete, "/empresas/"+cpfCnpj+"/certificado", nil, nil)
	if err != nil && EhNaoEncontrado(err) {
		return nil
	}
	return err
}

// EmitirNfe garante o cadastro da empresa e envia a nota para autorização.
func (c *Client) EmitirNfe(ctx context.Context, emp DadosEmpresa, infNfe json.RawMessage) (*Nfe, error) {
	if err := c.GarantirEmpresa(ctx, emp); err != nil {
		return nil, err
	}

	ambiente := "homologacao"
	if c.ambiente == "producao" {
		ambiente = "producao"
	}

	var nfe Nfe
	if err := c.do(ctx, http.MethodPost, "/nfe", pedidoNfe{Ambiente: ambiente, InfNfe: infNfe}, &nfe); err != nil {
		return nil, err
	}
	return &nfe, nil
}

// ConsultarNfe busca a situação atual de uma nota no provedor.
func (c *Client) ConsultarNfe(ctx context.Context, id string) (*Nfe, error) {
	var nfe Nfe
	if err := c.do(ctx, http.MethodGet, "/nfe/"+id, nil, &nfe); err != nil {
		return nil, err
	}
	return &nfe, nil
}
