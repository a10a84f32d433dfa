package handler

import (
	"loan-eligibility/internal/api/handler/dto"
	"loan-eligibility/internal/domain/eligibility"
	"log/slog"
	"net/http"
)

type EligibilityHandler struct {
	service eligibility.Service
	logger  *slog.Logger
}

func NewEligibilityHandler(s eligibility.Service, l *slog.Logger) *EligibilityHandler {
	if s == nil {
		panic("eligibility service cannot be nil")
	}
	return &EligibilityHandler{
		service: s,
		logger:  l.With("component", "EligibilityHandler"),
	}
}

func (h *EligibilityHandler) decodeRequest(r *http.Request) (eligibility.Request, error) {
	var req dto.EligibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode eligibility request", slog.Any("error", err))
		return eligibility.Request{}, invalidBody(err)
	}
	if err := req.Validate(); err != nil {
		return eligibility.Request{}, err
	}
	return req.ToDomain(), nil
}

// CheckEligibility handles POST /check-eligibility
// @Summary Check loan eligibility
// @Description Scores the customer's loan history and quotes an approval decision, corrected interest rate and monthly installment. Nothing is stored.
// @Tags Eligibility
// @Accept json
// @Produce json
// @Param request body dto.EligibilityRequest true "Eligibility request"
// @Success 200 {object} dto.CheckEligibilityResponse "Eligibility decision"
// @Failure 400 {object} dto.ErrorResponse "Malformed request fields"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /check-eligibility [post]
func (h *EligibilityHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	decision, err := h.service.CheckEligibility(r.Context(), req)
	if err != nil {
		RespondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCheckEligibilityResponse(decision))
}

// CreateLoan handles POST /create-loan
// @Summary Create a loan if eligible
// @Description Runs the eligibility decision and stores an approved loan. Rejections are answered with 200 and a null loan_id.
// @Tags Eligibility
// @Accept json
// @Produce json
// @Param request body dto.EligibilityRequest true "Loan request"
// @Success 201 {object} dto.CreateLoanResponse "Loan approved and created"
// @Success 200 {object} dto.CreateLoanResponse "Loan not approved"
// @Failure 400 {object} dto.ErrorResponse "Malformed request fields"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /create-loan [post]
func (h *EligibilityHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	decision, err := h.service.CreateLoan(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Loan creation failed", slog.Int64("customerID", req.CustomerID), slog.Any("error", err))
		RespondError(w, err)
		return
	}

	status := http.StatusOK
	if decision.Approved {
		status = http.StatusCreated
	}
	respondJSON(w, status, dto.NewCreateLoanResponse(decision))
}

// ViewLoan handles GET /view-loan/{loanID}
// @Summary View a loan with its customer
// @Tags Eligibility
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.ViewLoanResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan or customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loan/{loanID} [get]
func (h *EligibilityHandler) ViewLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		RespondError(w, err)
		return
	}

	view, err := h.service.ViewLoan(r.Context(), loanID)
	if err != nil {
		RespondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewViewLoanResponse(view))
}

// ViewLoansByCustomer handles GET /view-loans/{customerID}
// @Summary List a customer's loans
// @Tags Eligibility
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.CustomerLoanItem "Loans of the customer"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loans/{customerID} [get]
func (h *EligibilityHandler) ViewLoansByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getIDFromURL(r, "customerID")
	if err != nil {
		RespondError(w, err)
		return
	}

	loans, err := h.service.ViewLoansByCustomer(r.Context(), customerID)
	if err != nil {
		RespondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerLoanItems(loans))
}
