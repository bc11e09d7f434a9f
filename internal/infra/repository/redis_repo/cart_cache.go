package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

// 所有視圖快取共用同一 TTL，寫入時一律刪除 key 強迫下次讀取回源
const ViewTTL = 600 * time.Second

const ordersAllKey = "orders:all"

func ordersKey(userID int) string {
	return fmt.Sprintf("orders:%d", userID)
}

func privateCartsKey(sellerID int) string {
	return fmt.Sprintf("privateCarts:%d", sellerID)
}

func ordersDataKey(sellerID int) string {
	return fmt.Sprintf("ordersData:%d", sellerID)
}

func pendingPaymentKey(intentID string) string {
	return fmt.Sprintf("uncompletedPaymentIntent:%s", intentID)
}

type ICartCache interface {
	// GetCarts userID 為 nil 時為管理員的全量視圖
	GetCarts(ctx context.Context, userID *int) ([]model.Cart, bool, error)
	SetCarts(ctx context.Context, userID *int, carts []model.Cart) error

	GetPrivateCarts(ctx context.Context, sellerID int) ([]model.PrivateCart, bool, error)
	SetPrivateCarts(ctx context.Context, sellerID int, carts []model.PrivateCart) error

	// OrdersData 快取原始訂單清單，統計數字每次讀取重算
	GetOrdersData(ctx context.Context, sellerID int) ([]model.Cart, bool, error)
	SetOrdersData(ctx context.Context, sellerID int, carts []model.Cart) error

	GetPendingPayment(ctx context.Context, intentID string) (*model.PendingPayment, bool, error)
	SetPendingPayment(ctx context.Context, intentID string, payment *model.PendingPayment) error
	DeletePendingPayment(ctx context.Context, intentID string) error

	// InvalidateCarts 刪除買家視圖與全量視圖
	InvalidateCarts(ctx context.Context, userID int) error

	// InvalidateSellerViews 刪除賣家私有視圖與統計視圖
	InvalidateSellerViews(ctx context.Context, sellerID int) error
}

type CartCache struct {
	cache Cache
}

func NewCartCache(cache Cache) *CartCache {
	return &CartCache{cache: cache}
}

func getJSON[T any](ctx context.Context, cache Cache, key string) (T, bool, error) {
	var zero T
	raw, err := cache.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return zero, false, fmt.Errorf("unmarshal cached value for %s: %w", key, err)
	}
	return value, true, nil
}

func setJSON(ctx context.Context, cache Cache, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", key, err)
	}
	return cache.Set(ctx, key, payload, ViewTTL)
}

func cartsKeyFor(userID *int) string {
	if userID == nil {
		return ordersAllKey
	}
	return ordersKey(*userID)
}

func (c *CartCache) GetCarts(ctx context.Context, userID *int) ([]model.Cart, bool, error) {
	return getJSON[[]model.Cart](ctx, c.cache, cartsKeyFor(userID))
}

func (c *CartCache) SetCarts(ctx context.Context, userID *int, carts []model.Cart) error {
	return setJSON(ctx, c.cache, cartsKeyFor(userID), carts)
}

func (c *CartCache) GetPrivateCarts(ctx context.Context, sellerID int) ([]model.PrivateCart, bool, error) {
	return getJSON[[]model.PrivateCart](ctx, c.cache, privateCartsKey(sellerID))
}

func (c *CartCache) SetPrivateCarts(ctx context.Context, sellerID int, carts []model.PrivateCart) error {
	return setJSON(ctx, c.cache, privateCartsKey(sellerID), carts)
}

func (c *CartCache) GetOrdersData(ctx context.Context, sellerID int) ([]model.Cart, bool, error) {
	return getJSON[[]model.Cart](ctx, c.cache, ordersDataKey(sellerID))
}

func (c *CartCache) SetOrdersData(ctx context.Context, sellerID int, carts []model.Cart) error {
	return setJSON(ctx, c.cache, ordersDataKey(sellerID), carts)
}

func (c *CartCache) GetPendingPayment(ctx context.Context, intentID string) (*model.PendingPayment, bool, error) {
	return getJSON[*model.PendingPayment](ctx, c.cache, pendingPaymentKey(intentID))
}

func (c *CartCache) SetPendingPayment(ctx context.Context, intentID string, payment *model.PendingPayment) error {
	return setJSON(ctx, c.cache, pendingPaymentKey(intentID), payment)
}

func (c *CartCache) DeletePendingPayment(ctx context.Context, intentID string) error {
	return c.cache.Delete(ctx, pendingPaymentKey(intentID))
}

func (c *CartCache) InvalidateCarts(ctx context.Context, userID int) error {
	return c.cache.Delete(ctx, ordersKey(userID), ordersAllKey)
}

func (c *CartCache) InvalidateSellerViews(ctx context.Context, sellerID int) error {
	return c.cache.Delete(ctx, privateCartsKey(sellerID), ordersDataKey(sellerID))
}

var _ ICartCache = (*CartCache)(nil)
