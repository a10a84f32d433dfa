package importer

import (
	"fmt"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/pkg/coerce"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

const (
	colCustomerID    = "customer id"
	colFirstName     = "first name"
	colLastName      = "last name"
	colAge           = "age"
	colPhone         = "phone number"
	colMonthlySalary = "monthly salary"
	colApprovedLimit = "approved limit"

	colLoanAmount     = "loan amount"
	colTenure         = "tenure"
	colInterestRate   = "interest rate"
	colMonthlyPayment = "monthly payment"
	colApprovalDate   = "date of approval"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
}

type customerRow struct {
	line          int
	sheetID       *int64
	firstName     string
	lastName      string
	phone         *string
	age           *int
	monthlyIncome *float64
	approvedLimit *float64
}

func (r customerRow) empty() bool {
	return r.firstName == "" && r.lastName == "" && r.phone == nil
}

func (r customerRow) placeholderEmail() string {
	switch {
	case r.sheetID != nil:
		return fmt.Sprintf("imported_%d@%s", *r.sheetID, placeholderDomain)
	case r.phone != nil:
		return fmt.Sprintf("phone_%s@%s", *r.phone, placeholderDomain)
	default:
		return fmt.Sprintf("imported_row_%d@%s", r.line, placeholderDomain)
	}
}

type loanRow struct {
	line               int
	sheetCustomerID    *int64
	amount             float64
	tenure             int
	interestRate       float64
	monthlyInstallment float64
	approvedAt         *time.Time
}

// toLoan builds the stored loan. A row with an approval date is APPROVED and
// keeps that date as its creation time; anything else stays PENDING.
func (r loanRow) toLoan(customerID int64) (*loan.Loan, error) {
	l, err := loan.NewLoan(customerID, r.amount, r.tenure, r.interestRate)
	if err != nil {
		return nil, err
	}
	l.MonthlyInstallment = r.monthlyInstallment
	if r.approvedAt != nil {
		l.CreatedAt = *r.approvedAt
		if err := l.Approve(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

type sheet struct {
	columns map[string]int
	rows    [][]string
}

// openSheet reads the first worksheet with raw cell values so that numbers
// and dates come back unformatted.
func openSheet(path string) (*sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("%s contains no worksheets", path)
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", name, err)
	}

	s := &sheet{columns: make(map[string]int)}
	if len(rows) == 0 {
		return s, nil
	}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := s.columns[key]; key != "" && !dup {
			s.columns[key] = i
		}
	}
	s.rows = rows[1:]
	return s, nil
}

func (s *sheet) cell(row []string, column string) string {
	i, ok := s.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// line is the 1-based spreadsheet row number, counting the header.
func line(index int) int { return index + 2 }

func readCustomers(path string) ([]customerRow, error) {
	s, err := openSheet(path)
	if err != nil {
		return nil, err
	}

	out := make([]customerRow, 0, len(s.rows))
	for i, row := range s.rows {
		out = append(out, customerRow{
			line:          line(i),
			sheetID:       parseID(s.cell(row, colCustomerID)),
			firstName:     s.cell(row, colFirstName),
			lastName:      s.cell(row, colLastName),
			phone:         parsePhone(s.cell(row, colPhone)),
			age:           parseAge(s.cell(row, colAge)),
			monthlyIncome: parseAmount(s.cell(row, colMonthlySalary)),
			approvedLimit: parseAmount(s.cell(row, colApprovedLimit)),
		})
	}
	return out, nil
}

func readLoans(path string) ([]loanRow, error) {
	s, err := openSheet(path)
	if err != nil {
		return nil, err
	}

	out := make([]loanRow, 0, len(s.rows))
	for i, row := range s.rows {
		tenure := coerce.Int(coerce.Float(s.cell(row, colTenure), 1), 1)
		if tenure == 0 {
			tenure = 1
		}
		out = append(out, loanRow{
			line:               line(i),
			sheetCustomerID:    parseID(s.cell(row, colCustomerID)),
			amount:             coerce.Float(s.cell(row, colLoanAmount), 0.0),
			tenure:             tenure,
			interestRate:       coerce.Float(s.cell(row, colInterestRate), 0.0),
			monthlyInstallment: coerce.Float(s.cell(row, colMonthlyPayment), 0.0),
			approvedAt:         parseDate(s.cell(row, colApprovalDate)),
		})
	}
	return out, nil
}

func parseID(raw string) *int64 {
	if raw == "" {
		return nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || !coerce.Finite(f) || f != math.Trunc(f) {
		return nil
	}
	id := int64(f)
	return &id
}

// parsePhone keeps whole numbers in plain digits, so a cell stored as
// 9.629317944e+09 reads back as 9629317944.
func parsePhone(raw string) *string {
	if raw == "" {
		return nil
	}
	phone := raw
	if f, err := cast.ToFloat64E(raw); err == nil && coerce.Finite(f) && f == math.Trunc(f) {
		phone = strconv.FormatInt(int64(f), 10)
	}
	return &phone
}

func parseAge(raw string) *int {
	if raw == "" {
		return nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || !coerce.Finite(f) || f < 0 {
		return nil
	}
	age := int(f)
	return &age
}

func parseAmount(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || !coerce.Finite(f) {
		return nil
	}
	return &f
}

// parseDate accepts an Excel serial date or one of the text layouts above.
// Anything else counts as no date.
func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
