package transfer

import (
	"time"

	domain "cargotrace-backend/internal/domain/transfer"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// IngestInput mirrors the watcher payload.
type IngestInput struct {
	Network     string `json:"network"`
	Contract    string `json:"contract"`
	TxHash      string `json:"tx_hash"`
	LogIndex    int64  `json:"log_index"`
	BlockNumber int64  `json:"block_number"`
	TokenID     string `json:"token_id"`
	From        string `json:"from"`
	To          string `json:"to"`
}

type EventDTO struct {
	Network     string    `json:"network"`
	Contract    string    `json:"contract"`
	TxHash      string    `json:"tx_hash"`
	LogIndex    uint32    `json:"log_index"`
	BlockNumber uint64    `json:"block_number"`
	TokenID     string    `json:"token_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ReceivedAt  time.Time `json:"received_at"`
}

func toDTO(e *domain.Event) *EventDTO {
	return &EventDTO{
		Network:     e.Network,
		Contract:    e.Contract,
		TxHash:      e.TxHash,
		LogIndex:    e.LogIndex,
		BlockNumber: e.BlockNumber,
		TokenID:     e.TokenID,
		From:        e.FromAddress,
		To:          e.ToAddress,
		ReceivedAt:  e.ReceivedAt,
	}
}
