package sim

import (
	"sort"
	"time"
)

// Variant labels for A/B splits.
const (
	VariantControl = "control"
	VariantTest    = "test"
)

// Acquisition channels.
const (
	ChannelAds      = "ads"
	ChannelOrganic  = "organic"
	ChannelReferral = "referral"
)

// Conversion multipliers per channel, relative to the base rate.
var channelConversionMult = map[string]float64{
	ChannelAds:      0.90,
	ChannelOrganic:  1.00,
	ChannelReferral: 1.25,
}

// Registration window: the full calendar year 2025.
var regWindowStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

const regWindowDays = 365

// User is one simulated product user.
type User struct {
	ID           int       `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Converted    bool      `json:"converted"`
	Variant      string    `json:"variant"`
	Channel      string    `json:"channel"`
}

// ChannelShares holds acquisition channel weights. They need not sum to
// anything particular; the generator normalizes them.
type ChannelShares struct {
	Ads      float64
	Organic  float64
	Referral float64
}

// UserParams configures GenerateUsers.
type UserParams struct {
	Count         int
	ConversionPct float64 // base conversion to the target action, percent
	ABTest        bool
	Shares        ChannelShares
	Seasonality   bool
}

func seasonalityMult(month time.Month, enabled bool) float64 {
	if !enabled {
		return 1.0
	}
	switch month {
	case time.December, time.January:
		return 1.2
	case time.July, time.August:
		return 0.85
	}
	return 1.0
}

// effectiveConversion layers the channel and seasonality multipliers onto
// the base rate and clamps to a valid probability.
func effectiveConversion(basePct float64, channel string, regMonth time.Month, seasonality bool) float64 {
	mult := channelConversionMult[channel] * seasonalityMult(regMonth, seasonality)
	p := basePct / 100.0 * mult
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// GenerateUsers produces exactly p.Count users with registration dates over
// the 2025 window. Draw order: all registration dates, then (after sorting
// dates) one channel draw, one conversion draw and, when A/B is on, one
// variant draw per user. user_id follows registration order.
func GenerateUsers(p UserParams, src *Source) ([]User, error) {
	total := p.Shares.Ads + p.Shares.Organic + p.Shares.Referral
	if total <= 0 {
		return nil, ErrZeroChannelShares
	}
	pAds := p.Shares.Ads / total
	pOrganic := p.Shares.Organic / total

	dates := make([]time.Time, p.Count)
	for i := range dates {
		day := int(src.Uniform(0, regWindowDays))
		if day > regWindowDays-1 {
			day = regWindowDays - 1
		}
		dates[i] = regWindowStart.AddDate(0, 0, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	users := make([]User, p.Count)
	for i := range users {
		users[i] = User{ID: i + 1, RegisteredAt: dates[i], Variant: VariantControl}
	}

	for i := range users {
		switch x := src.Float64(); {
		case x < pAds:
			users[i].Channel = ChannelAds
		case x < pAds+pOrganic:
			users[i].Channel = ChannelOrganic
		default:
			users[i].Channel = ChannelReferral
		}
	}

	for i := range users {
		prob := effectiveConversion(p.ConversionPct, users[i].Channel, users[i].RegisteredAt.Month(), p.Seasonality)
		users[i].Converted = src.Bernoulli(prob)
	}

	if p.ABTest {
		for i := range users {
			if src.Bernoulli(0.5) {
				users[i].Variant = VariantTest
			}
		}
	}

	return users, nil
}
