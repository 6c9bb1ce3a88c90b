package subscription

import (
	vo "tablier/internal/domain/subscription/valueobjects"
)

// monthlyPrices is the fixed product pricing per tier. The external
// processor price IDs are deployment configuration, injected through
// NewCatalog, because they differ per environment.
var monthlyPrices = map[vo.Plan]float64{
	vo.PlanFree:     0,
	vo.PlanPro:      9.99,
	vo.PlanUltimate: 19.99,
}

// Catalog maps plan identifiers to their monthly price and external
// processor price reference. It is a pure lookup table: unknown plans
// yield zero values, callers are expected to validate the plan first.
type Catalog struct {
	priceIDs map[vo.Plan]string
}

// NewCatalog creates a plan catalog with environment-sourced price IDs.
func NewCatalog(priceIDs map[string]string) *Catalog {
	ids := make(map[vo.Plan]string, len(priceIDs))
	for plan, id := range priceIDs {
		ids[vo.Plan(plan)] = id
	}
	return &Catalog{priceIDs: ids}
}

// MonthlyPrice returns the monthly price for a plan, zero for unknown plans.
func (c *Catalog) MonthlyPrice(plan vo.Plan) float64 {
	return monthlyPrices[plan]
}

// PriceID returns the external processor price reference for a plan.
// Empty for the free plan, unknown plans, and unconfigured environments.
func (c *Catalog) PriceID(plan vo.Plan) string {
	return c.priceIDs[plan]
}
