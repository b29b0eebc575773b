package dto

type NotificationResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Message        string  `json:"message"`
	Type           string  `json:"type"`
	IsRead         bool    `json:"is_read"`
	SenderUsername *string `json:"sender_username"`
	SenderName     *string `json:"sender_name"`
	CreatedAt      string  `json:"created_at"`
}

type UnreadNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}
