package model

type OpStatus string

const (
	OpStatusSuccess OpStatus = "success"
	OpStatusFail    OpStatus = "fail"
	OpStatusError   OpStatus = "error"
)

// Result 業務操作的統一回應封裝
// 業務規則失敗以 fail/error 回傳，不以 Go error 傳遞
// Go error 保留給基礎設施故障
type Result struct {
	Status   OpStatus `json:"status"`
	Response string   `json:"response"`
	Data     any      `json:"data,omitempty"`
}

func SuccessResult(response string, data any) *Result {
	return &Result{Status: OpStatusSuccess, Response: response, Data: data}
}

func FailResult(response string) *Result {
	return &Result{Status: OpStatusFail, Response: response}
}

func ErrorResult(response string) *Result {
	return &Result{Status: OpStatusError, Response: response}
}

func (r *Result) IsSuccess() bool {
	return r != nil && r.Status == OpStatusSuccess
}

// 賣家操作回傳的品項出貨狀態
type ItemCompletedState struct {
	ID        uint           `json:"id"`
	Completed *ItemCompleted `json:"completed"`
}

// 買家操作回傳的品項收貨狀態
type ItemReceivedState struct {
	ID       uint          `json:"id"`
	Received *ItemReceived `json:"received"`
}

type SenderUpdateData struct {
	CartID     uint                 `json:"cartId"`
	CartItems  []ItemCompletedState `json:"cartItems"`
	CartStatus CartStatus           `json:"cartStatus"`
}

type ReceiverUpdateData struct {
	CartID     uint              `json:"cartId"`
	CartItem   ItemReceivedState `json:"cartItem"`
	CartStatus CartStatus        `json:"cartStatus"`
}
