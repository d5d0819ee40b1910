package asaas

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Handler expõe o proxy administrativo POST /api/asaas, que repassa chamadas
// arbitrárias ao gateway usando a chave guardada no servidor. Restrito a
// perfis master na montagem das rotas.
type Handler struct {
	Client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{Client: client}
}

type proxyRequest struct {
	Endpoint string          `json:"endpoint"`
	Method   string          `json:"method"`
	Data     json.RawMessage `json:"data"`
}

type proxyResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Proxy responde sempre no formato {success, data, error}.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	var req proxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(req.Endpoint, "/") {
		http.Error(w, "endpoint inválido", http.StatusBadRequest)
		return
	}
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodPost
	}

	var payload interface{}
	if len(req.Data) > 0 {
		payload = req.Data
	}

	w.Header().Set("Content-Type", "application/json")
	body, err := h.Client.doRaw(r.Context(), method, req.Endpoint, payload)
	if err != nil {
		json.NewEncoder(w).Encode(proxyResponse{Success: false, Error: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(proxyResponse{Success: true, Data: body})
}
