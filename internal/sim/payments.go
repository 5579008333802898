package sim

import (
	"math"
	"time"
)

// Payment is one simulated charge against a user.
type Payment struct {
	UserID    int       `json:"user_id"`
	PaymentID int       `json:"payment_id"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
}

// PaymentParams configures GeneratePayments. The amount range is assumed
// valid (min ≤ max); Params.Validate catches bad ranges before this runs.
type PaymentParams struct {
	MinAmount       float64
	MaxAmount       float64
	FirstPaymentMin float64
	FirstPaymentMax float64
	ChurnMonths     float64 // months without a payment after which a user stops paying
	PayRate         float64 // share of users with at least one payment
	RepeatRate      float64 // share of payers with repeat payments
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func addDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(days * float64(24*time.Hour)))
}

// GeneratePayments produces the payment stream for a user population.
// Draw order: one payer draw per user up front, then for each payer (in
// registration order, which is how users arrive here) the first-payment
// offset and amount, the repeat draw, the repeat count, and per repeat a gap
// and an amount.
//
// Per payer: the first payment lands within 30 days of registration at a
// first-payment amount; repeaters make up to 5 further payments separated by
// Uniform(7, min(churn_days, 70)) day gaps, stopping the moment a drawn gap
// exceeds the churn window. From the third payment on, amounts come from the
// upper half of the range to model loyalty spend growth. Timestamps per user
// are strictly increasing since every gap is positive.
func GeneratePayments(users []User, p PaymentParams, src *Source) []Payment {
	churnDays := p.ChurnMonths * 30

	isPayer := make([]bool, len(users))
	for i := range users {
		isPayer[i] = src.Bernoulli(p.PayRate)
	}

	var payments []Payment
	paymentID := 1

	for i, u := range users {
		if !isPayer[i] {
			continue
		}

		lastPaid := addDays(u.RegisteredAt, src.Uniform(0, 30))
		payments = append(payments, Payment{
			UserID:    u.ID,
			PaymentID: paymentID,
			Amount:    round2(src.Uniform(p.FirstPaymentMin, p.FirstPaymentMax)),
			PaidAt:    lastPaid,
		})
		paymentID++

		if !src.Bernoulli(p.RepeatRate) {
			continue
		}

		nRepeat := src.IntBetween(1, 5)
		paymentNumber := 1 // the first payment already happened

		for r := 0; r < nRepeat; r++ {
			// Cap the gap so neighbouring-month payments stay common.
			gapDays := src.Uniform(7, math.Min(churnDays, 70))
			if gapDays > churnDays {
				break // churned: no further payments
			}
			lastPaid = addDays(lastPaid, gapDays)
			paymentNumber++

			var amount float64
			if paymentNumber >= 3 {
				mid := (p.MinAmount + p.MaxAmount) / 2
				amount = src.Uniform(mid, p.MaxAmount)
			} else {
				amount = src.Uniform(p.MinAmount, p.MaxAmount)
			}

			payments = append(payments, Payment{
				UserID:    u.ID,
				PaymentID: paymentID,
				Amount:    round2(amount),
				PaidAt:    lastPaid,
			})
			paymentID++
		}
	}

	return payments
}
