package dto

import (
	"tablier/internal/domain/subscription"
	"tablier/internal/shared/biztime"
)

// ToSubscriptionDTO converts a subscription aggregate to its presentation shape.
func ToSubscriptionDTO(sub *subscription.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	d := &SubscriptionDTO{
		ID:                   sub.ID(),
		UserID:               sub.UserID(),
		Role:                 string(sub.Role()),
		Plan:                 string(sub.Plan()),
		Status:               string(sub.Status()),
		StartDate:            biztime.FormatDate(sub.StartDate()),
		EndDate:              biztime.FormatDate(sub.EndDate()),
		MonthlyPrice:         sub.MonthlyPrice(),
		StripeCustomerID:     sub.StripeCustomerID(),
		StripeSubscriptionID: sub.StripeSubscriptionID(),
		Virtual:              sub.IsVirtual(),
		CreatedAt:            sub.CreatedAt(),
		UpdatedAt:            sub.UpdatedAt(),
	}

	if grace := sub.GracePeriodEnd(); grace != nil {
		formatted := biztime.FormatDate(*grace)
		d.GracePeriodEnd = &formatted
	}

	return d
}

// ToSubscriptionDTOList converts a slice of aggregates, skipping nils.
func ToSubscriptionDTOList(subs []*subscription.Subscription) []*SubscriptionDTO {
	dtos := make([]*SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		if sub != nil {
			dtos = append(dtos, ToSubscriptionDTO(sub))
		}
	}
	return dtos
}
