package dto

type CreateChatRequest struct {
	Title string `json:"title" binding:"max=200"`
}

type RenameChatRequest struct {
	Title string `json:"title" binding:"max=200"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"max=8000"`
}
