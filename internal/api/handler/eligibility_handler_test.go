package handler

import (
	"encoding/json"
	"errors"
	"loan-eligibility/internal/api/handler/dto"
	"loan-eligibility/internal/domain/eligibility"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/pkg/apperrors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const eligibilityBody = `{"customer_id":1,"loan_amount":10000,"interest_rate":10,"tenure":12}`

var eligibilityReq = eligibility.Request{CustomerID: 1, LoanAmount: 10000, InterestRate: 10, Tenure: 12}

func TestEligibilityHandler_CheckEligibility(t *testing.T) {
	t.Run("returns the quote", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)
		svc.On("CheckEligibility", mock.Anything, eligibilityReq).Return(&eligibility.Decision{
			CustomerID: 1, Approved: true, InterestRate: 10, CorrectedInterestRate: 9, Tenure: 12, MonthlyInstallment: 874.51,
		}, nil)

		rec := serve(http.MethodPost, "/check-eligibility", "/check-eligibility", eligibilityBody, h.CheckEligibility)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CheckEligibilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Approval)
		assert.Equal(t, 10.0, resp.InterestRate)
		assert.Equal(t, 9.0, resp.CorrectedInterestRate)
		assert.Equal(t, 874.51, resp.MonthlyInstallment)
		svc.AssertExpectations(t)
	})

	t.Run("unknown customer is 404", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)
		svc.On("CheckEligibility", mock.Anything, eligibilityReq).Return(nil, apperrors.ErrCustomerNotFound)

		rec := serve(http.MethodPost, "/check-eligibility", "/check-eligibility", eligibilityBody, h.CheckEligibility)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Customer not found.", decodeError(t, rec).Error.Message)
	})

	t.Run("missing field is 400 with field name", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)

		rec := serve(http.MethodPost, "/check-eligibility", "/check-eligibility", `{"customer_id":1,"loan_amount":10,"tenure":3}`, h.CheckEligibility)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "interest_rate", decodeError(t, rec).Error.Field)
		svc.AssertNotCalled(t, "CheckEligibility", mock.Anything, mock.Anything)
	})

	t.Run("wrong type is 400", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)

		rec := serve(http.MethodPost, "/check-eligibility", "/check-eligibility", `{"customer_id":"one"}`, h.CheckEligibility)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service validation error keeps field", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)
		svc.On("CheckEligibility", mock.Anything, eligibilityReq).Return(nil, apperrors.NewValidationError("tenure", "must be at least 1"))

		rec := serve(http.MethodPost, "/check-eligibility", "/check-eligibility", eligibilityBody, h.CheckEligibility)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "tenure", decodeError(t, rec).Error.Field)
	})
}

func TestEligibilityHandler_CreateLoan(t *testing.T) {
	t.Run("approved is 201 with loan id", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)
		id := int64(42)
		svc.On("CreateLoan", mock.Anything, eligibilityReq).Return(&eligibility.Decision{
			CustomerID: 1, Approved: true, LoanID: &id, Message: eligibility.MessageApproved, MonthlyInstallment: 874.51,
		}, nil)

		rec := serve(http.MethodPost, "/create-loan", "/create-loan", eligibilityBody, h.CreateLoan)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CreateLoanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.LoanID)
		assert.Equal(t, int64(42), *resp.LoanID)
		assert.Equal(t, "Loan approved", resp.Message)
	})

	t.Run("rejected is 200 with null loan id", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)
		svc.On("CreateLoan", mock.Anything, eligibilityReq).Return(&eligibility.Decision{
			CustomerID: 1, Approved: false, Message: eligibility.MessageRejected, MonthlyInstallment: 888.49,
		}, nil)

		rec := serve(http.MethodPost, "/create-loan", "/create-loan", eligibilityBody, h.CreateLoan)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"loan_id":null`)
		assert.Contains(t, rec.Body.String(), `"loan_approved":false`)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)
		svc.On("CreateLoan", mock.Anything, eligibilityReq).Return(nil, errors.Join(apperrors.ErrInternalServer, errors.New("db down")))

		rec := serve(http.MethodPost, "/create-loan", "/create-loan", eligibilityBody, h.CreateLoan)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestEligibilityHandler_ViewLoan(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)
		age := 34
		svc.On("ViewLoan", mock.Anything, int64(5)).Return(&eligibility.LoanView{
			Loan:     &loan.Loan{ID: 5, CustomerID: 2, Amount: 1000, TenureMonths: 6, InterestRate: 8, MonthlyInstallment: 170.58, Status: loan.StatusApproved},
			Customer: eligibility.CustomerSummary{ID: 2, FirstName: "Asha", LastName: "Rao", PhoneNumber: "555", Age: &age},
		}, nil)

		rec := serve(http.MethodGet, "/view-loan/{loanID}", "/view-loan/5", "", h.ViewLoan)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.ViewLoanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(5), resp.LoanID)
		assert.Equal(t, "Asha", resp.Customer.FirstName)
		require.NotNil(t, resp.Customer.Age)
		assert.Equal(t, 34, *resp.Customer.Age)
	})

	t.Run("missing loan", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)
		svc.On("ViewLoan", mock.Anything, int64(5)).Return(nil, apperrors.ErrLoanNotFound)

		rec := serve(http.MethodGet, "/view-loan/{loanID}", "/view-loan/5", "", h.ViewLoan)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Loan not found.", decodeError(t, rec).Error.Message)
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(MockEligibilityService)
		h := NewEligibilityHandler(svc, testLogger)

		rec := serve(http.MethodGet, "/view-loan/{loanID}", "/view-loan/abc", "", h.ViewLoan)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEligibilityHandler_ViewLoansByCustomer(t *testing.T) {
	svc := new(MockEligibilityService)
	h := NewEligibilityHandler(svc, testLogger)
	svc.On("ViewLoansByCustomer", mock.Anything, int64(2)).Return([]*loan.Loan{
		{ID: 1, Amount: 1000, TenureMonths: 6, Status: loan.StatusApproved},
	}, nil)
	svc.On("ViewLoansByCustomer", mock.Anything, int64(3)).Return(nil, apperrors.ErrCustomerNotFound)

	rec := serve(http.MethodGet, "/view-loans/{customerID}", "/view-loans/2", "", h.ViewLoansByCustomer)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []dto.CustomerLoanItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "APPROVED", items[0].Status)

	rec = serve(http.MethodGet, "/view-loans/{customerID}", "/view-loans/3", "", h.ViewLoansByCustomer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
