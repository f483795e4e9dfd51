package businessflow

import (
	"fmt"
	"math"
	"time"

	"github.com/mh853/Funnely-sub001/models"
)

const (
	healthyThreshold = 70
	atRiskThreshold  = 40

	engagementWeight   = 0.30
	productUsageWeight = 0.30
	supportWeight      = 0.20
	paymentWeight      = 0.20
)

// CompanyActivity holds the signals health scoring reads for one company
type CompanyActivity struct {
	Now                time.Time
	LastActiveAt       *time.Time
	LeadsLast30Days    int64
	LeadsPrior30Days   int64
	ActiveLandingPages int64
	TotalLandingPages  int64
	OpenTickets        int64
	UrgentTickets      int64
	SubscriptionStatus string // empty when the company never subscribed
}

// HealthScoreResult is a composite score with its sub-scores in 0..100
type HealthScoreResult struct {
	Overall         int
	Engagement      int
	ProductUsage    int
	Support         int
	Payment         int
	Status          string
	RiskFactors     []string
	Recommendations []string
}

// CalculateHealthScore scores a company from its activity signals
func CalculateHealthScore(a CompanyActivity) HealthScoreResult {
	r := HealthScoreResult{
		RiskFactors:     []string{},
		Recommendations: []string{},
	}
	risk := func(factor, recommendation string) {
		r.RiskFactors = append(r.RiskFactors, factor)
		r.Recommendations = append(r.Recommendations, recommendation)
	}

	// engagement
	switch days := daysSince(a.Now, a.LastActiveAt); {
	case days < 0:
		r.Engagement = 0
		risk("No recorded activity", "Schedule an onboarding call")
	case days <= 1:
		r.Engagement = 100
	case days <= 7:
		r.Engagement = 80
	case days <= 14:
		r.Engagement = 60
	case days <= 30:
		r.Engagement = 40
		risk(fmt.Sprintf("No activity in the last %d days", days), "Send a re-engagement campaign")
	default:
		r.Engagement = 10
		risk(fmt.Sprintf("No activity in the last %d days", days), "Reach out personally before the account churns")
	}

	// product usage: half landing pages, half lead volume
	pages := 0
	if a.TotalLandingPages > 0 {
		pages = int(math.Round(50 * float64(a.ActiveLandingPages) / float64(a.TotalLandingPages)))
	}
	if a.ActiveLandingPages == 0 {
		risk("No active landing pages", "Help the customer publish a landing page")
	}
	leads := int(min(a.LeadsLast30Days, 50))
	if a.LeadsLast30Days == 0 {
		risk("No leads in the last 30 days", "Review landing page traffic sources")
	} else if a.LeadsPrior30Days > 0 && a.LeadsLast30Days*2 < a.LeadsPrior30Days {
		risk("Lead volume dropped by more than half", "Audit recent landing page changes")
	}
	r.ProductUsage = clampScore(pages + leads)

	// support
	r.Support = clampScore(100 - 10*int(a.OpenTickets) - 20*int(a.UrgentTickets))
	if a.UrgentTickets > 0 {
		risk(fmt.Sprintf("%d urgent support tickets open", a.UrgentTickets), "Resolve urgent tickets first")
	} else if a.OpenTickets >= 3 {
		risk(fmt.Sprintf("%d support tickets open", a.OpenTickets), "Review the open ticket backlog")
	}

	// payment
	switch a.SubscriptionStatus {
	case models.SubscriptionStatusActive:
		r.Payment = 100
	case models.SubscriptionStatusTrial:
		r.Payment = 70
		risk("Still on a trial plan", "Offer a conversion incentive before the trial ends")
	case models.SubscriptionStatusPastDue:
		r.Payment = 30
		risk("Payment is past due", "Follow up on the overdue payment")
	default:
		r.Payment = 0
		risk("No active subscription", "Offer a plan that fits current usage")
	}

	r.Overall = clampScore(int(math.Round(
		engagementWeight*float64(r.Engagement) +
			productUsageWeight*float64(r.ProductUsage) +
			supportWeight*float64(r.Support) +
			paymentWeight*float64(r.Payment),
	)))
	r.Status = HealthStatusFor(r.Overall)
	return r
}

// HealthStatusFor maps an overall score to healthy, at_risk or critical
func HealthStatusFor(overall int) string {
	switch {
	case overall >= healthyThreshold:
		return models.HealthStatusHealthy
	case overall >= atRiskThreshold:
		return models.HealthStatusAtRisk
	default:
		return models.HealthStatusCritical
	}
}

// daysSince returns whole days between at and now, or -1 when at is unknown
func daysSince(now time.Time, at *time.Time) int {
	if at == nil {
		return -1
	}
	d := now.Sub(*at)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

func clampScore(v int) int {
	return max(0, min(100, v))
}
