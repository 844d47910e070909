package dto

import "time"

type SendMessageRequest struct {
	RecipientID int64  `json:"recipientId"`
	PropertyID  int64  `json:"propertyId"`
	Message     string `json:"message"`
}

type SendMessageResponse struct {
	MessageID int64     `json:"messageId"`
	Timestamp time.Time `json:"timestamp"`
}
