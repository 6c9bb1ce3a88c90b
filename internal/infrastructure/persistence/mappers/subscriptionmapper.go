package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"tablier/internal/domain/subscription"
	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/infrastructure/persistence/models"
)

const metadataCheckoutSessionKey = "checkout_session_id"

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]string
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	entity, err := subscription.Reconstruct(subscription.ReconstructParams{
		ID:                   model.ID,
		UserID:               model.UserID,
		Role:                 model.Role,
		Plan:                 vo.Plan(model.Plan),
		Status:               vo.SubscriptionStatus(model.Status),
		StartDate:            model.StartDate,
		EndDate:              model.EndDate,
		GracePeriodEnd:       model.GracePeriodEnd,
		MonthlyPrice:         model.MonthlyPrice,
		StripeCustomerID:     model.StripeCustomerID,
		StripeSubscriptionID: model.StripeSubscriptionID,
		CheckoutSessionID:    metadata[metadataCheckoutSessionKey],
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}
	if entity.IsVirtual() {
		return nil, subscription.ErrVirtualNotPersistable
	}

	var metadata datatypes.JSON
	if sessionID := entity.CheckoutSessionID(); sessionID != "" {
		raw, err := json.Marshal(map[string]string{metadataCheckoutSessionKey: sessionID})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = raw
	}

	return &models.SubscriptionModel{
		ID:                   entity.ID(),
		UserID:               entity.UserID(),
		Role:                 string(entity.Role()),
		Plan:                 string(entity.Plan()),
		Status:               string(entity.Status()),
		StartDate:            entity.StartDate(),
		EndDate:              entity.EndDate(),
		GracePeriodEnd:       entity.GracePeriodEnd(),
		MonthlyPrice:         entity.MonthlyPrice(),
		StripeCustomerID:     entity.StripeCustomerID(),
		StripeSubscriptionID: entity.StripeSubscriptionID(),
		Metadata:             metadata,
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(subscriptionModels []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(subscriptionModels))
	for _, model := range subscriptionModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
