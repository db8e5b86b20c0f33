package http

import (
	"net/http"

	"cargotrace-backend/internal/usecase/transfer"

	"github.com/labstack/echo/v4"
)

type TransferHandler struct{ uc *transfer.Usecase }

func NewTransferHandler(uc *transfer.Usecase) *TransferHandler { return &TransferHandler{uc: uc} }

type ingestReq struct {
	Network     string `json:"network"      validate:"max=32"`
	Contract    string `json:"contract"     validate:"required,max=64"`
	TxHash      string `json:"tx_hash"      validate:"required,txhash"`
	LogIndex    int64  `json:"log_index"    validate:"gte=0"`
	BlockNumber int64  `json:"block_number" validate:"gte=0"`
	TokenID     string `json:"token_id"     validate:"max=78"`
	From        string `json:"from"         validate:"max=64"`
	To          string `json:"to"           validate:"required,max=64"`
}

// Ingest answers 201 for a new event and 200 for a redelivery.
func (h *TransferHandler) Ingest(c echo.Context) error {
	var req ingestReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, created, err := h.uc.Ingest(c.Request().Context(), transfer.IngestInput(req))
	if err != nil {
		return respondError(c, err)
	}
	if created {
		return c.JSON(http.StatusCreated, dto)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransferHandler) List(c echo.Context) error {
	limit, ok := queryLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer", Code: "invalid_query"})
	}
	ctx := c.Request().Context()
	if token := c.QueryParam("token_id"); token != "" {
		out, err := h.uc.ListByToken(ctx, token, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
	out, err := h.uc.List(ctx, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
