package model

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemState(completed *ItemCompleted, received *ItemReceived) CartItem {
	return CartItem{Completed: completed, Received: received}
}

func sent() *ItemCompleted {
	v := ItemCompletedSent
	return &v
}

func cancelled() *ItemCompleted {
	v := ItemCompletedCancelled
	return &v
}

func received() *ItemReceived {
	v := ItemReceivedReceived
	return &v
}

func lost() *ItemReceived {
	v := ItemReceivedLost
	return &v
}

func TestComputeCartStatus(t *testing.T) {
	testCases := []struct {
		name     string
		items    []CartItem
		expected CartStatus
	}{
		{
			name: "任一品項未決定維持 paid",
			items: []CartItem{
				itemState(sent(), nil),
				itemState(nil, nil),
			},
			expected: CartStatusPaid,
		},
		{
			name: "全部取消",
			items: []CartItem{
				itemState(cancelled(), nil),
				itemState(cancelled(), nil),
			},
			expected: CartStatusCancelled,
		},
		{
			name: "全部出貨但尚無收貨結果為過渡狀態 sent",
			items: []CartItem{
				itemState(sent(), nil),
				itemState(sent(), nil),
			},
			expected: CartStatusSent,
		},
		{
			name: "全部出貨全部收到",
			items: []CartItem{
				itemState(sent(), received()),
				itemState(sent(), received()),
			},
			expected: CartStatusReceived,
		},
		{
			name: "全部出貨全部遺失",
			items: []CartItem{
				itemState(sent(), lost()),
				itemState(sent(), lost()),
			},
			expected: CartStatusLost,
		},
		{
			name: "全部出貨部分遺失",
			items: []CartItem{
				itemState(sent(), received()),
				itemState(sent(), lost()),
			},
			expected: CartStatusPartiallyLost,
		},
		{
			name: "全部出貨部分收到無遺失",
			items: []CartItem{
				itemState(sent(), received()),
				itemState(sent(), nil),
			},
			expected: CartStatusPartiallyReceived,
		},
		{
			name: "取消與出貨混合且有遺失",
			items: []CartItem{
				itemState(cancelled(), nil),
				itemState(sent(), lost()),
			},
			expected: CartStatusPartiallyLost,
		},
		{
			name: "取消與出貨混合無遺失",
			items: []CartItem{
				itemState(cancelled(), nil),
				itemState(sent(), received()),
			},
			expected: CartStatusPartiallyReceived,
		},
		{
			name: "取消與出貨混合尚未收貨",
			items: []CartItem{
				itemState(cancelled(), nil),
				itemState(sent(), nil),
			},
			expected: CartStatusPartiallyReceived,
		},
		{
			name:     "空品項集合視為 paid",
			items:    nil,
			expected: CartStatusPaid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeCartStatus(tc.items))
		})
	}
}

// 聚合狀態只取決於品項狀態組合，與品項順序無關
func TestComputeCartStatus_OrderIndependent(t *testing.T) {
	items := []CartItem{
		itemState(sent(), received()),
		itemState(sent(), lost()),
		itemState(cancelled(), nil),
		itemState(sent(), nil),
	}
	expected := ComputeCartStatus(items)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]CartItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		require.Equal(t, expected, ComputeCartStatus(shuffled))
	}
}

func TestDeliveryTypeFee(t *testing.T) {
	assert.True(t, DeliveryTypeStandart.Fee().Equal(decimal.NewFromInt(5)))
	assert.True(t, DeliveryTypeExpress.Fee().Equal(decimal.NewFromInt(10)))
}
