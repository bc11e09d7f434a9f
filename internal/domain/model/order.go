package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusPending           CartStatus = "pending"
	CartStatusPaid              CartStatus = "paid"
	CartStatusSent              CartStatus = "sent" // 過渡狀態，所有商品已出貨但買家尚未確認
	CartStatusCancelled         CartStatus = "cancelled"
	CartStatusReceived          CartStatus = "received"
	CartStatusPartiallyReceived CartStatus = "partially_received"
	CartStatusLost              CartStatus = "lost"
	CartStatusPartiallyLost     CartStatus = "partially_lost"
)

// 賣家對單一商品的出貨決定，每個商品只能設定一次
type ItemCompleted string

const (
	ItemCompletedSent      ItemCompleted = "sent"
	ItemCompletedCancelled ItemCompleted = "cancelled"
)

// 買家對單一商品的收貨結果，只有已出貨的商品才能設定
type ItemReceived string

const (
	ItemReceivedReceived ItemReceived = "received"
	ItemReceivedLost     ItemReceived = "lost"
)

type DeliveryType string

const (
	DeliveryTypeStandart DeliveryType = "standart"
	DeliveryTypeExpress  DeliveryType = "express"
)

// 運費為固定金額
func (d DeliveryType) Fee() decimal.Decimal {
	if d == DeliveryTypeExpress {
		return decimal.NewFromInt(10)
	}
	return decimal.NewFromInt(5)
}

type Cart struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       int             `gorm:"not null;index" json:"user_id"` // 外鍵，關聯到 User (買家)
	Total        decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total"`
	Status       CartStatus      `gorm:"not null;type:varchar(20)" json:"status"`
	DeliveryType DeliveryType    `gorm:"not null;type:varchar(20)" json:"delivery_type"`
	Promo        string          `gorm:"type:varchar(50)" json:"promo,omitempty"`
	Phone        string          `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address      string          `gorm:"type:varchar(255)" json:"address,omitempty"`
	City         string          `gorm:"type:varchar(100)" json:"city,omitempty"`
	State        string          `gorm:"type:varchar(100)" json:"state,omitempty"`
	PostalCode   string          `gorm:"type:varchar(20)" json:"postal_code,omitempty"`
	Country      string          `gorm:"type:varchar(100)" json:"country,omitempty"`
	CartItems    []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cart_items"` // 一對多，級聯刪除
	CreatedAt    time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// 商品名稱、價格、頭像於訂單成立時定格快照
// 之後商品目錄的變動不影響歷史訂單
type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CartID    uint            `gorm:"not null;index" json:"cart_id"` // 外鍵，關聯到 Cart
	ProductID string          `gorm:"not null;type:varchar(255);index" json:"product_id"`
	Name      string          `gorm:"not null;type:varchar(255)" json:"name"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Avatar    string          `gorm:"type:varchar(512)" json:"avatar"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Completed *ItemCompleted  `gorm:"type:varchar(10)" json:"completed"`
	Received  *ItemReceived   `gorm:"type:varchar(10)" json:"received"`
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsDecided 賣家是否已做出出貨決定
func (i *CartItem) IsDecided() bool {
	return i.Completed != nil
}

func (i *CartItem) IsFinalized() bool {
	return i.Received != nil
}

/*
ComputeCartStatus 從所有品項狀態推導訂單聚合狀態

純函數，結果只取決於品項的 (completed, received) 組合，與呼叫順序無關。
優先序：
 1. 任一品項未決定 -> paid
 2. 全部取消 -> cancelled
 3. 全部出貨：尚無任何收貨結果 -> sent；全收到 -> received；全遺失 -> lost；
    部分遺失 -> partially_lost；其餘 -> partially_received
 4. 取消與出貨混合：有遺失 -> partially_lost；否則 -> partially_received
*/
func ComputeCartStatus(items []CartItem) CartStatus {
	if len(items) == 0 {
		return CartStatusPaid
	}

	var (
		hasUndecided bool
		allCancelled = true
		allSent      = true
		allReceived  = true
		allLost      = true
		hasLost      bool
		anyReceived  bool
	)

	for _, item := range items {
		switch {
		case item.Completed == nil:
			hasUndecided = true
		case *item.Completed == ItemCompletedCancelled:
			allSent = false
		case *item.Completed == ItemCompletedSent:
			allCancelled = false
		}

		if item.Received == nil {
			allReceived = false
			allLost = false
			continue
		}
		anyReceived = true
		switch *item.Received {
		case ItemReceivedLost:
			hasLost = true
			allReceived = false
		case ItemReceivedReceived:
			allLost = false
		}
	}

	switch {
	case hasUndecided:
		return CartStatusPaid
	case allCancelled:
		return CartStatusCancelled
	case allSent:
		switch {
		case !anyReceived:
			return CartStatusSent
		case allReceived:
			return CartStatusReceived
		case allLost:
			return CartStatusLost
		case hasLost:
			return CartStatusPartiallyLost
		default:
			return CartStatusPartiallyReceived
		}
	case hasLost:
		return CartStatusPartiallyLost
	default:
		return CartStatusPartiallyReceived
	}
}

// 賣家私有視圖，非自己商品的品項會被遮蔽
type PrivateCart struct {
	ID           uint              `json:"id"`
	UserID       int               `json:"user_id"`
	Total        decimal.Decimal   `json:"total"`
	Status       CartStatus        `json:"status"`
	DeliveryType DeliveryType      `json:"delivery_type"`
	Promo        string            `json:"promo"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CartItems    []PrivateCartItem `json:"cart_items"`
}

// Price 與 Quantity 以字串呈現，被遮蔽時為占位符
type PrivateCartItem struct {
	ID        uint           `json:"id"`
	CartID    uint           `json:"cart_id"`
	ProductID string         `json:"product_id"`
	Name      string         `json:"name"`
	Price     string         `json:"price"`
	Avatar    string         `json:"avatar"`
	Quantity  string         `json:"quantity"`
	Completed *ItemCompleted `json:"completed"`
	Received  *ItemReceived  `json:"received"`
}

// OrdersData 賣家出貨成果統計
type OrdersData struct {
	SuccessfulOrders int `json:"successfulOrders"`
	FailedOrders     int `json:"failedOrders"`
}
