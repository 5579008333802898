package sim

import (
	"errors"
	"fmt"
)

// ErrZeroChannelShares is returned when every channel share is zero, which
// would leave the channel draw without a valid distribution.
var ErrZeroChannelShares = errors.New("channel shares sum to zero")

// Params is the full scenario parameter set. It is what gets saved to the
// scenario store and replayed; a given Params plus a seed fully determines
// the generated datasets.
type Params struct {
	Users         int     `json:"n_users"`
	ConversionPct float64 `json:"conversion_rate"`

	PctAds      float64 `json:"pct_ads"`
	PctOrganic  float64 `json:"pct_organic"`
	PctReferral float64 `json:"pct_referral"`

	Seasonality bool `json:"seasonality_enabled"`

	MinAmount       float64 `json:"min_amount"`
	MaxAmount       float64 `json:"max_amount"`
	FirstPaymentMin float64 `json:"first_payment_min"`
	FirstPaymentMax float64 `json:"first_payment_max"`

	ChurnMonths float64 `json:"churn_months"`
	PayRate     float64 `json:"pay_rate"`
	RepeatRate  float64 `json:"repeat_rate"`

	ABTest bool    `json:"ab_test"`
	CAC    float64 `json:"cac"`

	// InactiveDays is the churn inactivity window used by the metrics pass.
	InactiveDays int `json:"inactive_days"`

	Seed int64 `json:"seed"`
	// RandomSeed ignores Seed and makes the run non-reproducible.
	RandomSeed bool `json:"-"`
}

// DefaultParams mirrors the stock scenario.
func DefaultParams() Params {
	return Params{
		Users:           2000,
		ConversionPct:   12,
		PctAds:          30,
		PctOrganic:      50,
		PctReferral:     20,
		Seasonality:     true,
		MinAmount:       99,
		MaxAmount:       5000,
		FirstPaymentMin: 299,
		FirstPaymentMax: 499,
		ChurnMonths:     3,
		PayRate:         0.15,
		RepeatRate:      0.30,
		ABTest:          true,
		CAC:             500,
		InactiveDays:    60,
		Seed:            42,
	}
}

// Validate rejects parameter combinations the generators are entitled to
// assume away. Callers run it before Generate.
func (p Params) Validate() error {
	if p.Users <= 0 {
		return fmt.Errorf("n_users must be positive, got %d", p.Users)
	}
	if p.ConversionPct < 0 || p.ConversionPct > 100 {
		return fmt.Errorf("conversion_rate must be in [0, 100], got %g", p.ConversionPct)
	}
	if p.PctAds < 0 || p.PctOrganic < 0 || p.PctReferral < 0 {
		return fmt.Errorf("channel shares must be non-negative")
	}
	if p.PctAds+p.PctOrganic+p.PctReferral <= 0 {
		return ErrZeroChannelShares
	}
	if p.MinAmount > p.MaxAmount {
		return fmt.Errorf("min_amount %g exceeds max_amount %g", p.MinAmount, p.MaxAmount)
	}
	if p.FirstPaymentMin > p.FirstPaymentMax {
		return fmt.Errorf("first_payment_min %g exceeds first_payment_max %g", p.FirstPaymentMin, p.FirstPaymentMax)
	}
	if p.ChurnMonths <= 0 {
		return fmt.Errorf("churn_months must be positive, got %g", p.ChurnMonths)
	}
	if p.PayRate < 0 || p.PayRate > 1 || p.RepeatRate < 0 || p.RepeatRate > 1 {
		return fmt.Errorf("pay_rate and repeat_rate must be in [0, 1]")
	}
	return nil
}

// source builds the random source the scenario runs on.
func (p Params) source() *Source {
	if p.RandomSeed {
		return NewTimeSource()
	}
	return NewSource(p.Seed)
}

// Generate runs the whole simulation for a scenario: users first, then
// payments, off a single random stream. The stream is consumed in a fixed
// order (registration dates, channels, conversion draws, variant draws, then
// per-user payment draws in registration order), so a fixed seed reproduces
// the datasets bit for bit.
func Generate(p Params) ([]User, []Payment, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	src := p.source()
	users, err := GenerateUsers(UserParams{
		Count:         p.Users,
		ConversionPct: p.ConversionPct,
		ABTest:        p.ABTest,
		Shares:        ChannelShares{Ads: p.PctAds, Organic: p.PctOrganic, Referral: p.PctReferral},
		Seasonality:   p.Seasonality,
	}, src)
	if err != nil {
		return nil, nil, err
	}
	payments := GeneratePayments(users, PaymentParams{
		MinAmount:       p.MinAmount,
		MaxAmount:       p.MaxAmount,
		FirstPaymentMin: p.FirstPaymentMin,
		FirstPaymentMax: p.FirstPaymentMax,
		ChurnMonths:     p.ChurnMonths,
		PayRate:         p.PayRate,
		RepeatRate:      p.RepeatRate,
	}, src)
	return users, payments, nil
}
