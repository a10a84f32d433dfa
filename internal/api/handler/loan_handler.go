package handler

import (
	"loan-eligibility/internal/api/handler/dto"
	"loan-eligibility/internal/domain/loan"
	"log/slog"
	"net/http"
)

// LoanHandler serves the generic loan record endpoints. Every create and
// update is re-decided by the threshold rule inside the service.
type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// CreateLoan handles POST /loans
// @Summary Create a loan record
// @Description Stores a loan; status is APPROVED when the amount is at most 5000, otherwise REJECTED.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan"
// @Success 201 {object} dto.LoanResponse "Loan created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondError(w, invalidBody(err))
		return
	}
	if err := req.Validate(); err != nil {
		RespondError(w, err)
		return
	}

	created, err := h.service.CreateLoan(r.Context(), req.ToDomain(0))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create loan", slog.Any("error", err))
		RespondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(created))
}

// ListLoans handles GET /loans
// @Summary List loan records
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.LoanResponse "Loans"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponses(loans))
}

// GetLoan handles GET /loans/{loanID}
// @Summary Retrieve a loan record
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.LoanResponse "Loan"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		RespondError(w, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		RespondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// UpdateLoan handles PUT /loans/{loanID}
// @Summary Replace a loan record
// @Description Re-decides the status with the threshold rule.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Param request body dto.LoanRequest true "Loan"
// @Success 200 {object} dto.LoanResponse "Loan updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [put]
// @Security BearerAuth
func (h *LoanHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		RespondError(w, err)
		return
	}
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondError(w, invalidBody(err))
		return
	}
	if err := req.Validate(); err != nil {
		RespondError(w, err)
		return
	}

	updated, err := h.service.UpdateLoan(r.Context(), req.ToDomain(loanID))
	if err != nil {
		RespondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(updated))
}

// DeleteLoan handles DELETE /loans/{loanID}
// @Summary Delete a loan record
// @Tags Loans
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 204 "Loan deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [delete]
// @Security BearerAuth
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := h.service.DeleteLoan(r.Context(), loanID); err != nil {
		RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
