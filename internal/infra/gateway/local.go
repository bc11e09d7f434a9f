package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GatewayError error

var ErrIntentNotFound GatewayError = errors.New("payment intent not found")

// LocalGateway 開發環境用的金流替身，所有付款確認一律成功
// 正式環境換成實際金流的實作
type LocalGateway struct {
	mu      sync.Mutex
	intents map[string]*service.PaymentIntent
}

func NewLocalGateway() *LocalGateway {
	return &LocalGateway{intents: make(map[string]*service.PaymentIntent)}
}

func (g *LocalGateway) CreateIntent(ctx context.Context, amount decimal.Decimal) (*service.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent := &service.PaymentIntent{
		ID:     "pi_" + uuid.NewString(),
		Amount: amount,
		Status: "requires_confirmation",
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *LocalGateway) ConfirmIntent(ctx context.Context, intentID string, methodID string) (*service.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, ErrIntentNotFound
	}
	intent.Status = "succeeded"
	return intent, nil
}

var _ service.PaymentGateway = (*LocalGateway)(nil)
