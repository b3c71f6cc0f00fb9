package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/providers"
)

// NotificationService delivers fire-and-forget email to shop owners. Every
// send runs in its own goroutine with its own timeout; delivery failures are
// logged and never surface into the caller's state changes.
type NotificationService struct {
	sender providers.EmailSender
}

// NewNotificationService creates a new notification service
func NewNotificationService(sender providers.EmailSender) *NotificationService {
	return &NotificationService{sender: sender}
}

// SendShopRegistered notifies a shop's contact address that registration
// succeeded and reminds them of the secret code to hand to customers.
func (n *NotificationService) SendShopRegistered(shop *entities.Shop) {
	if n.sender == nil {
		return
	}

	subject := fmt.Sprintf("%s is registered on LoyaltyScan", shop.Name)
	body := fmt.Sprintf(
		"Your shop %q is now registered.\n\n"+
			"Share your check-in code %s with customers at the counter. "+
			"Customers who visit on %s will see their weekly progress in the app.\n\n"+
			"Submit your business license from the shop page to get the verified badge.",
		shop.Name, shop.SecretCode, shop.ID,
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		messageID, err := n.sender.Send(ctx, shop.ContactEmail, subject, body)
		if err != nil {
			log.Warn().Err(err).Str("shop_id", shop.ID).Msg("failed to send registration email")
			return
		}
		log.Info().Str("shop_id", shop.ID).Str("message_id", messageID).Msg("registration email sent")
	}()
}
