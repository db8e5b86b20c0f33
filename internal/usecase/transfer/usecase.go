package transfer

import (
	"context"
	"errors"
	"math"
	"strings"

	domain "cargotrace-backend/internal/domain/transfer"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewUsecase(repo domain.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, log: log}
}

// Ingest stores a transfer once per (tx_hash, log_index). created is false for a redelivery.
func (u *Usecase) Ingest(ctx context.Context, in IngestInput) (dto *EventDTO, created bool, err error) {
	txHash := strings.ToLower(strings.TrimSpace(in.TxHash))
	if !domain.ValidTxHash(txHash) {
		return nil, false, domain.ErrInvalidTxHash
	}
	if strings.TrimSpace(in.Contract) == "" || strings.TrimSpace(in.To) == "" ||
		in.LogIndex < 0 || in.LogIndex > math.MaxUint32 || in.BlockNumber < 0 {
		return nil, false, domain.ErrInvalidEvent
	}
	logIndex := uint32(in.LogIndex)

	if e, err := u.repo.GetByTxLog(ctx, txHash, logIndex); err == nil {
		return toDTO(e), false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	e := &domain.Event{
		Network:     strings.TrimSpace(in.Network),
		Contract:    strings.TrimSpace(in.Contract),
		TxHash:      txHash,
		LogIndex:    logIndex,
		BlockNumber: uint64(in.BlockNumber),
		TokenID:     strings.TrimSpace(in.TokenID),
		FromAddress: strings.TrimSpace(in.From),
		ToAddress:   strings.TrimSpace(in.To),
	}
	if err := u.repo.Create(ctx, e); err != nil {
		// lost a race with a concurrent delivery of the same log
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, gerr := u.repo.GetByTxLog(ctx, txHash, logIndex)
			if gerr != nil {
				return nil, false, gerr
			}
			return toDTO(existing), false, nil
		}
		return nil, false, err
	}
	u.log.Info("nft transfer ingested",
		zap.String("tx_hash", e.TxHash),
		zap.Uint32("log_index", e.LogIndex),
		zap.String("token_id", e.TokenID))
	return toDTO(e), true, nil
}

func (u *Usecase) List(ctx context.Context, limit int) ([]EventDTO, error) {
	es, err := u.repo.List(ctx, clamp(limit))
	if err != nil {
		return nil, err
	}
	return toDTOs(es), nil
}

func (u *Usecase) ListByToken(ctx context.Context, tokenID string, limit int) ([]EventDTO, error) {
	es, err := u.repo.ListByToken(ctx, tokenID, clamp(limit))
	if err != nil {
		return nil, err
	}
	return toDTOs(es), nil
}

func clamp(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

func toDTOs(es []domain.Event) []EventDTO {
	out := make([]EventDTO, 0, len(es))
	for i := range es {
		out = append(out, *toDTO(&es[i]))
	}
	return out
}
