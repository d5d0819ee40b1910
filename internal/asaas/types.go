package asaas

import "fmt"

// Tipos de cobrança locais (coluna cobrancas.tipo)
const (
	CobrancaAtivacaoRevenda = "ativacao_revenda"
)

// ErroAPI carrega o status e a mensagem crua devolvida pelo gateway.
type ErroAPI struct {
	Status   int
	Mensagem string
}

func (e *ErroAPI) Error() string {
	return fmt.Sprintf("asaas %d: %s", e.Status, e.Mensagem)
}

type erroresResposta struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// Cliente é o customer remoto do gateway.
type Cliente struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CpfCnpj     string `json:"cpfCnpj"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobilePhone"`
}

type NovoCliente struct {
	Name        string `json:"name"`
	CpfCnpj     string `json:"cpfCnpj"`
	Email       string `json:"email,omitempty"`
	MobilePhone string `json:"mobilePhone,omitempty"`
}

type listaClientes struct {
	Data       []Cliente `json:"data"`
	TotalCount int       `json:"totalCount"`
}

// Cobranca é o payment remoto do gateway.
type Cobranca struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Status            string  `json:"status"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description"`
	InvoiceUrl        string  `json:"invoiceUrl"`
	ExternalReference string  `json:"externalReference"`
}

type NovaCobranca struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

type PixQrCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

type LinhaDigitavel struct {
	IdentificationField string `json:"identificationField"`
	NossoNumero         string `json:"nossoNumero"`
	BarCode             string `json:"barCode"`
}

// Subconta é a conta white-label criada para um tenant.
type Subconta struct {
	ID       string `json:"id"`
	WalletId string `json:"walletId"`
	ApiKey   string `json:"apiKey"`
	Name     string `json:"name"`
	CpfCnpj  string `json:"cpfCnpj"`
	Email    string `json:"email"`
}

type NovaSubconta struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	MobilePhone   string `json:"mobilePhone,omitempty"`
	Address       string `json:"address,omitempty"`
	AddressNumber string `json:"addressNumber,omitempty"`
	Province      string `json:"province,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
}

type StatusConta struct {
	ID         string `json:"id"`
	General    string `json:"general"`
	Documents  string `json:"documents"`
	Commercial string `json:"commercialInfo"`
	Bank       string `json:"bankAccountInfo"`
}
