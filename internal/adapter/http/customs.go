package http

import (
	"net/http"

	"cargotrace-backend/internal/adapter/middleware"
	customsUC "cargotrace-backend/internal/usecase/customs"
	"cargotrace-backend/internal/usecase/verification"
	"cargotrace-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

type CustomsHandler struct {
	uc       *customsUC.Usecase
	verifier *verification.Usecase
}

func NewCustomsHandler(uc *customsUC.Usecase, verifier *verification.Usecase) *CustomsHandler {
	return &CustomsHandler{uc: uc, verifier: verifier}
}

type linkReq struct {
	ExternalRef       string `json:"external_ref"       validate:"required,max=128"`
	DeclarationNumber string `json:"declaration_number" validate:"required,acid"`
}

type verifyReq struct {
	CustomsData string `json:"customs_data" validate:"max=4096"`
}

func (h *CustomsHandler) Link(c echo.Context) error {
	var req linkReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Link(c.Request().Context(), customsUC.LinkInput{
		OwnerID:           middleware.CallerID(c),
		ExternalRef:       req.ExternalRef,
		DeclarationNumber: req.DeclarationNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CustomsHandler) Verify(c echo.Context) error {
	mappingID := c.Param("mapping_id")
	if !id.Valid(mappingID) {
		return badParam(c, "mapping_id")
	}
	var req verifyReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Verify(c.Request().Context(), mappingID, customsUC.VerifyInput{
		VerifiedBy:  middleware.CallerID(c),
		CustomsData: req.CustomsData,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CustomsHandler) Reject(c echo.Context) error {
	mappingID := c.Param("mapping_id")
	if !id.Valid(mappingID) {
		return badParam(c, "mapping_id")
	}
	var req rejectReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Reject(c.Request().Context(), mappingID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CustomsHandler) MarkUnderReview(c echo.Context) error {
	mappingID := c.Param("mapping_id")
	if !id.Valid(mappingID) {
		return badParam(c, "mapping_id")
	}
	dto, err := h.uc.MarkUnderReview(c.Request().Context(), mappingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Check asks the customs authority and applies its answer to the mapping.
func (h *CustomsHandler) Check(c echo.Context) error {
	mappingID := c.Param("mapping_id")
	if !id.Valid(mappingID) {
		return badParam(c, "mapping_id")
	}
	dto, err := h.verifier.Check(c.Request().Context(), mappingID, middleware.CallerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CustomsHandler) Get(c echo.Context) error {
	mappingID := c.Param("mapping_id")
	if !id.Valid(mappingID) {
		return badParam(c, "mapping_id")
	}
	dto, err := h.uc.Get(c.Request().Context(), mappingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CustomsHandler) Mine(c echo.Context) error {
	out, err := h.uc.ListByOwner(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomsHandler) Pending(c echo.Context) error {
	out, err := h.uc.ListPending(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomsHandler) List(c echo.Context) error {
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

func (h *CustomsHandler) Stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ValidateDeclaration reports whether a declaration number is known to the authority.
// A malformed number is answered as invalid rather than rejected.
func (h *CustomsHandler) ValidateDeclaration(c echo.Context) error {
	v, err := h.verifier.Validate(c.Request().Context(), c.Param("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}
