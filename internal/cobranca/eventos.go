package cobranca

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/thebest-sistemas/api/internal/database"
)

// EventoPago é publicado quando o webhook marca uma cobrança como paga.
type EventoPago struct {
	PerfilID   uint   `json:"perfilId"`
	CobrancaID uint   `json:"cobrancaId"`
	Tipo       string `json:"tipo"`
}

// Publicador emite eventos de cobrança paga.
type Publicador interface {
	PublicarPaga(ctx context.Context, evt EventoPago) error
}

// Assinante entrega o fluxo de eventos de cobrança paga.
type Assinante interface {
	AssinarPagas(ctx context.Context) (<-chan EventoPago, func(), error)
}

// EventosRedis implementa Publicador e Assinante sobre o pub/sub do Redis.
type EventosRedis struct {
	rdb *redis.Client
}

func NewEventosRedis(rdb *redis.Client) *EventosRedis {
	return &EventosRedis{rdb: rdb}
}

func (e *EventosRedis) PublicarPaga(ctx context.Context, evt EventoPago) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return e.rdb.Publish(ctx, database.CanalCobrancasPagas, data).Err()
}

func (e *EventosRedis) AssinarPagas(ctx context.Context) (<-chan EventoPago, func(), error) {
	ps := e.rdb.Subscribe(ctx, database.CanalCobrancasPagas)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, err
	}

	out := make(chan EventoPago)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var evt EventoPago
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("evento de cobrança malformado: %v", err)
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { ps.Close() }
	return out, cancel, nil
}
