package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tablier/internal/domain/subscription"
	"tablier/internal/infrastructure/persistence/mappers"
	"tablier/internal/infrastructure/persistence/models"
	"tablier/internal/shared/authorization"
	"tablier/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if sub.ID() == 0 {
		if err := sub.SetID(model.ID); err != nil {
			return fmt.Errorf("failed to set subscription ID: %w", err)
		}
	}

	r.logger.Infow("subscription created", "id", model.ID, "user_id", model.UserID, "plan", model.Plan)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}
	if model.ID == 0 {
		return fmt.Errorf("cannot update subscription without ID")
	}

	if err := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Select("plan", "status", "start_date", "end_date", "grace_period_end",
			"monthly_price", "stripe_customer_id", "stripe_subscription_id", "metadata", "updated_at").
		Updates(model).Error; err != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetLatestByUser(ctx context.Context, userID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get latest subscription", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetLatestByUserAndRole(ctx context.Context, userID string, role authorization.UserRole) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, string(role)).
		Order("created_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get latest subscription for role",
			"user_id", userID, "role", role, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) ListAll(ctx context.Context) ([]*subscription.Subscription, error) {
	var subscriptionModels []*models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&subscriptionModels).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subscriptionModels)
}

// UpsertFromCheckout runs the find-latest read and the write in one
// transaction with a locking read, so the webhook and the confirmation
// pull for the same session converge on a single row.
func (r *SubscriptionRepositoryImpl) UpsertFromCheckout(
	ctx context.Context,
	app subscription.CheckoutApplication,
	userID string,
	role authorization.UserRole,
) (*subscription.Subscription, error) {
	var result *subscription.Subscription

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.SubscriptionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND role = ?", userID, string(role)).
			Order("created_at DESC, id DESC").
			First(&model).Error

		switch {
		case err == gorm.ErrRecordNotFound:
			fresh, err := subscription.NewSubscription(userID, role, app.Plan, app.StartDate, app.EndDate)
			if err != nil {
				return fmt.Errorf("failed to build subscription: %w", err)
			}
			if err := fresh.ApplyCheckout(app); err != nil {
				return fmt.Errorf("failed to apply checkout: %w", err)
			}
			freshModel, err := r.mapper.ToModel(fresh)
			if err != nil {
				return fmt.Errorf("failed to map subscription: %w", err)
			}
			if err := tx.Create(freshModel).Error; err != nil {
				return fmt.Errorf("failed to create subscription: %w", err)
			}
			if err := fresh.SetID(freshModel.ID); err != nil {
				return fmt.Errorf("failed to set subscription ID: %w", err)
			}
			result = fresh
			return nil

		case err != nil:
			return fmt.Errorf("failed to get subscription: %w", err)
		}

		existing, err := r.mapper.ToEntity(&model)
		if err != nil {
			return fmt.Errorf("failed to map subscription: %w", err)
		}
		if err := existing.ApplyCheckout(app); err != nil {
			return fmt.Errorf("failed to apply checkout: %w", err)
		}

		updated, err := r.mapper.ToModel(existing)
		if err != nil {
			return fmt.Errorf("failed to map subscription: %w", err)
		}
		if err := tx.Model(&models.SubscriptionModel{}).
			Where("id = ?", updated.ID).
			Select("plan", "status", "start_date", "end_date", "grace_period_end",
				"monthly_price", "stripe_customer_id", "stripe_subscription_id", "metadata", "updated_at").
			Updates(updated).Error; err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		result = existing
		return nil
	})
	if err != nil {
		r.logger.Errorw("checkout upsert failed", "user_id", userID, "role", role, "error", err)
		return nil, err
	}

	r.logger.Infow("checkout applied to subscription",
		"subscription_id", result.ID(),
		"user_id", userID,
		"role", role,
		"plan", result.Plan(),
	)
	return result, nil
}
