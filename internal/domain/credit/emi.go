package credit

import (
	"loan-eligibility/internal/pkg/coerce"
	"math"

	"github.com/shopspring/decimal"
)

// EMI is the equal monthly installment for principal repaid over
// tenureMonths at annualRatePercent, rounded to cents. A tenure of zero or
// less yields 0.
func EMI(principal float64, tenureMonths int, annualRatePercent float64) float64 {
	if tenureMonths <= 0 {
		return 0
	}
	principal = coerce.Float(principal, 0)
	r := coerce.Float(annualRatePercent, 0) / 100 / 12
	n := float64(tenureMonths)

	var emi float64
	if r == 0 {
		emi = principal / n
	} else {
		growth := math.Pow(1+r, n)
		emi = principal * r * growth / (growth - 1)
	}
	if !coerce.Finite(emi) {
		return 0
	}
	return RoundMoney(emi)
}

// EMIRaw applies EMI to unparsed inputs. Unreadable principal becomes 0,
// unreadable tenure becomes 1 and unreadable rate becomes 0.
func EMIRaw(principal, tenureMonths, annualRatePercent any) float64 {
	return EMI(
		coerce.Float(principal, 0),
		coerce.Int(tenureMonths, 1),
		coerce.Float(annualRatePercent, 0),
	)
}

// RoundMoney rounds half away from zero to two decimal places.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
