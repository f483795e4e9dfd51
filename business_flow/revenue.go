package businessflow

import (
	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// CompanyRevenue is one company's recurring revenue at a point in time
type CompanyRevenue struct {
	CompanyID    uuid.UUID
	MRR          decimal.Decimal
	ARR          decimal.Decimal
	PlanType     string
	BillingCycle string
}

// CalculateMRR returns a subscription's monthly recurring revenue contribution.
// Yearly plans normalize to monthly; without an explicit yearly price the yearly amount is
// the monthly price times twelve.
func CalculateMRR(sub *models.Subscription) decimal.Decimal {
	if sub == nil || sub.Plan == nil {
		return decimal.Zero
	}

	plan := sub.Plan
	if sub.BillingCycle != models.BillingCycleYearly {
		return plan.PriceMonthly
	}

	yearly := plan.PriceMonthly.Mul(monthsPerYear)
	if plan.PriceYearly != nil {
		yearly = *plan.PriceYearly
	}
	return yearly.Div(monthsPerYear)
}

// CalculateCompanyRevenue groups active subscriptions by company in order of first appearance.
// ARR is MRR times twelve, taken before MRR is rounded to cents so a yearly price survives
// the trip through the monthly figure. Plan type and billing cycle come from the most recently created
// active subscription of the company. Companies without active subscriptions are absent.
func CalculateCompanyRevenue(subs []*models.Subscription) []CompanyRevenue {
	index := make(map[uuid.UUID]int)
	latest := make(map[uuid.UUID]*models.Subscription)
	var out []CompanyRevenue

	for _, sub := range subs {
		if sub == nil || sub.Status != models.SubscriptionStatusActive {
			continue
		}

		i, ok := index[sub.CompanyID]
		if !ok {
			i = len(out)
			index[sub.CompanyID] = i
			out = append(out, CompanyRevenue{CompanyID: sub.CompanyID, MRR: decimal.Zero})
		}
		out[i].MRR = out[i].MRR.Add(CalculateMRR(sub))

		if cur := latest[sub.CompanyID]; cur == nil || sub.CreatedAt.After(cur.CreatedAt) {
			latest[sub.CompanyID] = sub
		}
	}

	for i := range out {
		out[i].ARR = out[i].MRR.Mul(monthsPerYear).Round(2)
		out[i].MRR = out[i].MRR.Round(2)
		if sub := latest[out[i].CompanyID]; sub != nil {
			out[i].BillingCycle = sub.BillingCycle
			if sub.Plan != nil {
				out[i].PlanType = sub.Plan.Name
			}
		}
	}
	return out
}
