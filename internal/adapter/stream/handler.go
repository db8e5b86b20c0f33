package stream

import (
	"context"
	"encoding/json"
	"errors"

	"cargotrace-backend/internal/domain/shared"
	transferUC "cargotrace-backend/internal/usecase/transfer"

	"go.uber.org/zap"
)

// Message is one record taken off the transfer topic.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
}

// Ingester stores a transfer event; it is satisfied by the transfer usecase.
type Ingester interface {
	Ingest(ctx context.Context, in transferUC.IngestInput) (*transferUC.EventDTO, bool, error)
}

// Handler turns watcher payloads into stored transfer events.
type Handler struct {
	ingester Ingester
	log      *zap.Logger
}

func NewHandler(ingester Ingester, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{ingester: ingester, log: log}
}

// Handle returns an error only when the message should be delivered again.
// Malformed or invalid payloads are logged and skipped.
func (h *Handler) Handle(ctx context.Context, msg Message) error {
	var in transferUC.IngestInput
	if err := json.Unmarshal(msg.Value, &in); err != nil {
		h.log.Warn("skipping undecodable transfer payload",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return nil
	}

	_, created, err := h.ingester.Ingest(ctx, in)
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && de.Kind == shared.KindValidation {
			h.log.Warn("skipping invalid transfer event",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.String("code", de.Code))
			return nil
		}
		return err
	}
	if !created {
		h.log.Debug("duplicate transfer event", zap.String("tx_hash", in.TxHash), zap.Int64("log_index", in.LogIndex))
	}
	return nil
}
