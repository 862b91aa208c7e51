package models

import (
	"time"
)

// ChatMessage is one line in a game's chat log
type ChatMessage struct {
	// ID is the unique identifier for the message
	ID string `json:"id"`

	// PlayerID is the UID of the sender
	PlayerID string `json:"playerId"`

	// PlayerName is the sender's display name
	PlayerName string `json:"playerName"`

	// Message is the chat text
	Message string `json:"message"`

	// Timestamp is when the message was sent
	Timestamp time.Time `json:"timestamp"`
}
