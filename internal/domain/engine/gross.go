package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Payment component names the statutory stages treat specially. Matching is
// exact and case-sensitive against the configured payment type name.
const (
	BasicPayName           = "Basic Pay"
	TransportAllowanceName = "Transport Allowance"
)

const (
	PaymentKindGross = "gross"
	PaymentKindNet   = "net"
)

// PaymentType is one configured payment component. Order defines evaluation
// sequence; ties keep insertion order.
type PaymentType struct {
	ID    string
	Name  string
	Kind  string
	Order int
}

// PaymentAmount is the configured amount of one payment type for one staff
// member.
type PaymentAmount struct {
	PaymentTypeID string
	Amount        decimal.Decimal
}

// GrossBreakdown is the gross salary split into its tax bases.
type GrossBreakdown struct {
	TotalGross         decimal.Decimal            `json:"totalGross"`
	BasicPay           decimal.Decimal            `json:"basicPay"`
	TransportAllowance decimal.Decimal            `json:"transportAllowance"`
	OtherPayments      map[string]decimal.Decimal `json:"otherPayments"`
}

// ComputeGross folds the configured payment types into a total gross salary.
// Types are evaluated by ascending Order (stable); zero amounts produce no
// line item. A gross-typed amount is added as-is. A net-typed amount is
// grossed up against the gross accumulated so far — not against zero and not
// against the final total — so the configured order changes the result and
// must be preserved.
//
// Two types sharing a name collapse into one map key, later entry wins. That
// mirrors the behaviour of existing configurations and is left as-is.
func ComputeGross(types []PaymentType, amounts []PaymentAmount, settings *TaxSettings, exempt Exemptions) GrossBreakdown {
	ordered := make([]PaymentType, len(types))
	copy(ordered, types)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	amountByType := make(map[string]decimal.Decimal, len(amounts))
	for _, amount := range amounts {
		amountByType[amount.PaymentTypeID] = amount.Amount
	}

	breakdown := GrossBreakdown{OtherPayments: map[string]decimal.Decimal{}}
	for _, paymentType := range ordered {
		amount := amountByType[paymentType.ID]
		if amount.Sign() == 0 {
			continue
		}

		grossAmount := amount
		if paymentType.Kind == PaymentKindNet {
			grossAmount = SolveGrossIncrement(settings, exempt, breakdown.TotalGross, breakdown.BasicPay, breakdown.TransportAllowance, amount)
		}

		breakdown.TotalGross = breakdown.TotalGross.Add(grossAmount)
		switch paymentType.Name {
		case BasicPayName:
			breakdown.BasicPay = grossAmount
		case TransportAllowanceName:
			breakdown.TransportAllowance = grossAmount
		default:
			breakdown.OtherPayments[paymentType.Name] = grossAmount
		}
	}
	return breakdown
}
