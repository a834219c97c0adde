package api

type ChatRequest struct {
	Question string `json:"question"`
}

type ConsultRequest struct {
	Question   string `json:"question"`
	Screenshot string `json:"screenshot"`
}

type ChatResponse struct {
	Answer   string  `json:"answer"`
	AudioURL *string `json:"audio_url"`
}

type HistoryItem struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

type HistoryResponse struct {
	Turns []HistoryItem `json:"turns"`
}
