package http

import (
	"context"
	"net/http"

	"cargotrace-backend/internal/adapter/middleware"
	"cargotrace-backend/internal/usecase/document"
	"cargotrace-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

type DocumentHandler struct{ uc *document.Usecase }

func NewDocumentHandler(uc *document.Usecase) *DocumentHandler { return &DocumentHandler{uc: uc} }

type submitDocumentReq struct {
	ExternalRef   string `json:"external_ref"   validate:"required,max=128"`
	DeclaredValue int64  `json:"declared_value" validate:"required,gt=0"`
}

type rejectReq struct {
	Reason string `json:"reason" validate:"max=255"`
}

type batchTriggerReq struct {
	DocumentIDs []string `json:"document_ids" validate:"required,min=1,max=100,dive,hex32"`
}

func (h *DocumentHandler) Submit(c echo.Context) error {
	var req submitDocumentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Submit(c.Request().Context(), document.SubmitInput{
		OwnerID:       middleware.CallerID(c),
		ExternalRef:   req.ExternalRef,
		DeclaredValue: req.DeclaredValue,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *DocumentHandler) Get(c echo.Context) error {
	docID := c.Param("document_id")
	if !id.Valid(docID) {
		return badParam(c, "document_id")
	}
	dto, err := h.uc.Get(c.Request().Context(), docID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DocumentHandler) GetByExternalRef(c echo.Context) error {
	ref := c.Param("external_ref")
	if ref == "" {
		return badParam(c, "external_ref")
	}
	dto, err := h.uc.GetByExternalRef(c.Request().Context(), ref)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DocumentHandler) Mine(c echo.Context) error {
	out, err := h.uc.ListByOwner(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DocumentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if status := c.QueryParam("status"); status != "" {
		out, err := h.uc.ListByStatus(ctx, status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
	out, err := h.uc.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DocumentHandler) Approve(c echo.Context) error {
	return h.transition(c, h.uc.Approve)
}

func (h *DocumentHandler) MarkVerified(c echo.Context) error {
	return h.transition(c, h.uc.MarkVerified)
}

func (h *DocumentHandler) MarkNftMinted(c echo.Context) error {
	return h.transition(c, h.uc.MarkNftMinted)
}

func (h *DocumentHandler) transition(c echo.Context, fn func(context.Context, string) (*document.DocumentDTO, error)) error {
	docID := c.Param("document_id")
	if !id.Valid(docID) {
		return badParam(c, "document_id")
	}
	dto, err := fn(c.Request().Context(), docID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DocumentHandler) Reject(c echo.Context) error {
	docID := c.Param("document_id")
	if !id.Valid(docID) {
		return badParam(c, "document_id")
	}
	var req rejectReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Reject(c.Request().Context(), docID, req.Reason, middleware.CallerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DocumentHandler) TriggerLending(c echo.Context) error {
	docID := c.Param("document_id")
	if !id.Valid(docID) {
		return badParam(c, "document_id")
	}
	dto, err := h.uc.TriggerLending(c.Request().Context(), docID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// BatchTriggerLending always answers 200; per-document failures are in the body.
func (h *DocumentHandler) BatchTriggerLending(c echo.Context) error {
	var req batchTriggerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"results": h.uc.BatchTriggerLending(c.Request().Context(), req.DocumentIDs),
	})
}
