package valueobjects

// Plan is a named subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanUltimate Plan = "ultimate"
)

// ValidPlans is the set of plans accepted by the billing flow.
var ValidPlans = map[Plan]bool{
	PlanFree:     true,
	PlanPro:      true,
	PlanUltimate: true,
}

func (p Plan) String() string {
	return string(p)
}

func (p Plan) IsValid() bool {
	return ValidPlans[p]
}

// IsPaid reports whether the plan goes through checkout.
// The free plan never reaches the payment processor.
func (p Plan) IsPaid() bool {
	return p == PlanPro || p == PlanUltimate
}
