package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/peerlend/loan-tracker/internal/core/domain"
	"github.com/peerlend/loan-tracker/internal/core/ports"
)

const (
	msgInvalidPayload = "Invalid request payload"
	msgInvalidLoanID  = "Invalid loan ID format"
	msgPartiesMissing = "borrowerId and lenderId are required"
	msgLoanDeleted    = "Loan deleted successfully"
)

// LoanHandler handles HTTP requests for loan operations.
type LoanHandler struct {
	service ports.LoanService
	log     zerolog.Logger
}

func NewLoanHandler(service ports.LoanService, log zerolog.Logger) *LoanHandler {
	return &LoanHandler{service: service, log: log}
}

// List handles GET /loans.
//
// @Summary      List loans
// @Tags         loans
// @Produce      json
// @Success      200  {array}   domain.Loan
// @Failure      500  {object}  errorResponse
// @Router       /loans [get]
func (h *LoanHandler) List(c echo.Context) error {
	loans, err := h.service.ListLoans(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loans)
}

// Create handles POST /loans.
//
// @Summary      Create a loan
// @Description  The interest must equal the rate computed from the duration.
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createLoanRequest  true   "Loan terms"
// @Success      201              {object}  domain.Loan
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /loans [post]
func (h *LoanHandler) Create(c echo.Context) error {
	var req createLoanRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.ErrValidation, msgInvalidPayload)
	}
	if err := c.Validate(&req); err != nil {
		h.log.Debug().Err(err).Msg("loan request failed schema validation")
		return domain.NewError(domain.ErrValidation, msgPartiesMissing)
	}

	loan, err := h.service.CreateLoan(c.Request().Context(), ports.CreateLoanInput{
		Amount:     req.Amount,
		Interest:   req.Interest,
		Duration:   req.Duration,
		Collateral: req.Collateral,
		BorrowerID: req.BorrowerID,
		LenderID:   req.LenderID,
		Status:     req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, loan)
}

// Get handles GET /loans/:id.
//
// @Summary      Get a loan by id
// @Tags         loans
// @Produce      json
// @Param        id   path      string  true  "Loan id (UUID v4)"
// @Success      200  {object}  domain.Loan
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /loans/{id} [get]
func (h *LoanHandler) Get(c echo.Context) error {
	id, err := h.loanID(c)
	if err != nil {
		return err
	}
	loan, err := h.service.GetLoan(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loan)
}

// Update handles PUT /loans/:id. Fields left out of the body keep their
// stored values.
//
// @Summary      Update a loan
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Loan id (UUID v4)"
// @Param        body  body      updateLoanRequest  true  "Fields to change"
// @Success      200   {object}  domain.Loan
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /loans/{id} [put]
func (h *LoanHandler) Update(c echo.Context) error {
	id, err := h.loanID(c)
	if err != nil {
		return err
	}
	var req updateLoanRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.ErrValidation, msgInvalidPayload)
	}

	loan, err := h.service.UpdateLoan(c.Request().Context(), id, ports.UpdateLoanInput{
		Amount:     req.Amount,
		Interest:   req.Interest,
		Duration:   req.Duration,
		Collateral: req.Collateral,
		Status:     req.Status,
		BorrowerID: req.BorrowerID,
		LenderID:   req.LenderID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loan)
}

// Delete handles DELETE /loans/:id.
//
// @Summary      Delete a loan
// @Tags         loans
// @Produce      json
// @Param        id   path      string  true  "Loan id (UUID v4)"
// @Success      200  {object}  deleteLoanResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /loans/{id} [delete]
func (h *LoanHandler) Delete(c echo.Context) error {
	id, err := h.loanID(c)
	if err != nil {
		return err
	}
	loan, err := h.service.DeleteLoan(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteLoanResponse{Message: msgLoanDeleted, DeletedLoan: loan})
}

// loanID rejects malformed ids before the store is consulted.
func (h *LoanHandler) loanID(c echo.Context) (string, error) {
	id := c.Param("id")
	if !domain.IsValidUUID(id) {
		h.log.Warn().Str("id", id).Str("method", c.Request().Method).Msg("invalid loan id")
		return "", domain.NewError(domain.ErrValidation, msgInvalidLoanID)
	}
	return id, nil
}
