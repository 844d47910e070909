package models

import "time"

// Message is an immutable note between two users about one property.
type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"senderId"`
	RecipientID int64     `json:"recipientId"`
	PropertyID  int64     `json:"propertyId"`
	Body        string    `json:"message"`
	SentAt      time.Time `json:"timestamp"`
}
