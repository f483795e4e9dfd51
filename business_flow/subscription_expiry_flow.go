package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mh853/Funnely-sub001/app/dto"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/gorm"
)

const billingSettingsLink = "/dashboard/settings/billing"

// SubscriptionExpiryFlow moves subscriptions through trial|active -> past_due -> expired and
// sends the expiring-soon and expired notices once per billing period
type SubscriptionExpiryFlow interface {
	Run(ctx context.Context, now time.Time) (*dto.SubscriptionExpiryResult, error)
}

type SubscriptionExpiryFlowImpl struct {
	subscriptionRepo repository.SubscriptionRepository
	notificationRepo repository.NotificationRepository
	sentLogRepo      repository.NotificationSentLogRepository
	db               *gorm.DB
	logger           *log.Logger
}

func NewSubscriptionExpiryFlow(
	subscriptionRepo repository.SubscriptionRepository,
	notificationRepo repository.NotificationRepository,
	sentLogRepo repository.NotificationSentLogRepository,
	db *gorm.DB,
	logger *log.Logger,
) SubscriptionExpiryFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &SubscriptionExpiryFlowImpl{
		subscriptionRepo: subscriptionRepo,
		notificationRepo: notificationRepo,
		sentLogRepo:      sentLogRepo,
		db:               db,
		logger:           logger,
	}
}

func (f *SubscriptionExpiryFlowImpl) Run(ctx context.Context, now time.Time) (*dto.SubscriptionExpiryResult, error) {
	now = now.UTC()
	result := &dto.SubscriptionExpiryResult{}

	windowEnd := now.Add(utils.ExpiringSoonWindow)
	expiring, err := f.subscriptionRepo.ByFilter(ctx, models.SubscriptionFilter{
		Statuses:          []string{models.SubscriptionStatusActive, models.SubscriptionStatusTrial},
		PeriodEndAfter:    &now,
		PeriodEndNotAfter: &windowEnd,
		PreloadPlan:       true,
	}, "current_period_end ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("EXPIRING_SUBSCRIPTIONS_QUERY_FAILED", "Failed to list expiring subscriptions", err)
	}

	for _, sub := range expiring {
		created, err := f.notifyOnce(ctx, sub, models.NotificationTypeSubscriptionExpiring)
		if err != nil {
			result.Failed++
			f.logger.Printf("expiry check: subscription %s: failed to send expiring notice: %v", sub.ID, err)
			continue
		}
		if created {
			result.ExpiringSoonNotified++
		}
	}

	lapsed, err := f.subscriptionRepo.ByFilter(ctx, models.SubscriptionFilter{
		Statuses: []string{
			models.SubscriptionStatusActive,
			models.SubscriptionStatusTrial,
			models.SubscriptionStatusPastDue,
		},
		PeriodEndBefore: &now,
		PreloadPlan:     true,
	}, "current_period_end ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LAPSED_SUBSCRIPTIONS_QUERY_FAILED", "Failed to list lapsed subscriptions", err)
	}

	for _, sub := range lapsed {
		if sub.GracePeriodEnd != nil && sub.GracePeriodEnd.After(now) {
			if sub.Status == models.SubscriptionStatusPastDue {
				continue
			}
			if err := f.subscriptionRepo.UpdateStatus(ctx, sub.ID, models.SubscriptionStatusPastDue, now); err != nil {
				result.Failed++
				f.logger.Printf("expiry check: subscription %s: failed to move to past_due: %v", sub.ID, err)
				continue
			}
			result.MovedToPastDue++
			continue
		}

		err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
			if err := f.subscriptionRepo.UpdateStatus(txCtx, sub.ID, models.SubscriptionStatusExpired, now); err != nil {
				return err
			}
			_, err := f.notifyOnce(txCtx, sub, models.NotificationTypeSubscriptionExpired)
			return err
		})
		if err != nil {
			result.Failed++
			f.logger.Printf("expiry check: subscription %s: failed to expire: %v", sub.ID, err)
			continue
		}
		result.Expired++
	}

	return result, nil
}

// notifyOnce creates the notice and its ledger row unless the ledger already holds
// (subscription, type, period end). It reports whether a notice was created.
func (f *SubscriptionExpiryFlowImpl) notifyOnce(ctx context.Context, sub *models.Subscription, notificationType string) (bool, error) {
	created := false
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		sent, err := f.sentLogRepo.WasSent(txCtx, sub.ID, notificationType, sub.CurrentPeriodEnd)
		if err != nil {
			return err
		}
		if sent {
			return nil
		}

		title, message := expiryNoticeText(sub, notificationType)
		if err := f.notificationRepo.Save(txCtx, &models.Notification{
			CompanyID: sub.CompanyID,
			Title:     title,
			Message:   message,
			Type:      notificationType,
			Link:      billingSettingsLink,
		}); err != nil {
			return err
		}

		if err := f.sentLogRepo.Save(txCtx, &models.NotificationSentLog{
			SubscriptionID:   sub.ID,
			NotificationType: notificationType,
			PeriodEnd:        sub.CurrentPeriodEnd.UTC(),
		}); err != nil {
			return err
		}

		created = true
		return nil
	})
	return created, err
}

func expiryNoticeText(sub *models.Subscription, notificationType string) (string, string) {
	plan := "Your"
	if sub.Plan != nil && sub.Plan.Name != "" {
		plan = fmt.Sprintf("Your %s", sub.Plan.Name)
	}
	end := utils.FormatRegional(sub.CurrentPeriodEnd)

	if notificationType == models.NotificationTypeSubscriptionExpired {
		return "Subscription expired",
			fmt.Sprintf("%s subscription expired on %s. Renew to keep your landing pages and lead collection running.", plan, end)
	}
	return "Subscription expiring soon",
		fmt.Sprintf("%s subscription ends on %s. Renew before then to avoid interruption.", plan, end)
}
