package taxconfig

import (
	"time"

	"github.com/shopspring/decimal"

	"staffpay/internal/domain/engine"
)

// Band mirrors one paye_bands row. Max is nil for the open-ended top band.
type Band struct {
	Min      decimal.Decimal  `json:"min"`
	Max      *decimal.Decimal `json:"max"`
	Rate     decimal.Decimal  `json:"rate"`
	Position int              `json:"position"`
}

// Settings is one stored rate card. CompanyID empty means the global card.
type Settings struct {
	ID                    string          `json:"id"`
	CompanyID             string          `json:"companyId,omitempty"`
	PensionEmployerRate   decimal.Decimal `json:"pensionEmployerRate"`
	PensionEmployeeRate   decimal.Decimal `json:"pensionEmployeeRate"`
	MaternityEmployerRate decimal.Decimal `json:"maternityEmployerRate"`
	MaternityEmployeeRate decimal.Decimal `json:"maternityEmployeeRate"`
	RamaEmployerRate      decimal.Decimal `json:"ramaEmployerRate"`
	RamaEmployeeRate      decimal.Decimal `json:"ramaEmployeeRate"`
	CbhiRate              decimal.Decimal `json:"cbhiRate"`
	Bands                 []Band          `json:"payeBands"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// ToEngine converts the stored card into the engine's input form.
func (s *Settings) ToEngine() *engine.TaxSettings {
	settings := &engine.TaxSettings{
		PensionEmployerRate:   s.PensionEmployerRate,
		PensionEmployeeRate:   s.PensionEmployeeRate,
		MaternityEmployerRate: s.MaternityEmployerRate,
		MaternityEmployeeRate: s.MaternityEmployeeRate,
		RamaEmployerRate:      s.RamaEmployerRate,
		RamaEmployeeRate:      s.RamaEmployeeRate,
		CbhiRate:              s.CbhiRate,
	}
	for _, band := range s.Bands {
		settings.PayeBands = append(settings.PayeBands, engine.PayeBand{Min: band.Min, Max: band.Max, Rate: band.Rate})
	}
	return settings
}
