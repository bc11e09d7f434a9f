package model

import (
	"github.com/shopspring/decimal"
)

// CartDraft 結帳請求，品項只帶 productID 與數量
// 商品明細於建立訂單時從商品目錄補齊並定格
type CartDraft struct {
	UserID       int             `json:"user_id"`
	DeliveryType DeliveryType    `json:"delivery_type"`
	Promo        string          `json:"promo,omitempty"`
	CartItems    []CartDraftItem `json:"cart_items_ids"`
}

type CartDraftItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PendingPayment 付款確認前的訂單快照
// 只存在於 cache，付款成功才落地為 Cart
type PendingPayment struct {
	UserID       int                  `json:"user_id"`
	Total        decimal.Decimal      `json:"total"`
	Status       CartStatus           `json:"status"`
	DeliveryType DeliveryType         `json:"delivery_type"`
	Promo        string               `json:"promo,omitempty"`
	CartItems    []PendingPaymentItem `json:"cart_items"`
}

type PendingPaymentItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Avatar    string          `json:"avatar"`
	Quantity  int             `json:"quantity"`
}

// CustomerDetails 付款確認時補上的收件資訊
type CustomerDetails struct {
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
