package model

// StatusCommand 從佇列進來的狀態變更指令
// client_token 由前端產生，用來把結果廣播回正確的連線
type StatusCommand struct {
	JWT         string `json:"jwt"`
	ID          uint   `json:"id"`
	Status      string `json:"status"`
	ClientToken string `json:"client_token"`
}

// ResultMessage 操作結果廣播
type ResultMessage struct {
	ClientToken string  `json:"client_token"`
	Result      *Result `json:"result"`
}
