package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/labsys/labstock/internal/domain"
)

// Mailer emails low-stock alerts to the administrators that asked for them.
// Sends run in their own goroutine; a delivery failure is logged and
// otherwise ignored.
type Mailer struct {
	dialer *gomail.Dialer
	sender string
	users  domain.UserRepo
}

func NewMailer(host string, port int, username, password, sender string, users domain.UserRepo) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		sender: sender,
		users:  users,
	}
}

func (m *Mailer) NotifyLowStock(product domain.Product, remaining int) {
	go m.send(product, remaining)
}

func (m *Mailer) send(product domain.Product, remaining int) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	recipients, err := m.users.StockAlertEmails(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not resolve stock alert recipients")
		return
	}
	if len(recipients) == 0 {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", fmt.Sprintf("Low stock: %s", product.Name))
	msg.SetBody("text/plain", fmt.Sprintf(
		"%s is down to %d units, below the configured minimum of %d.",
		product.Name, remaining, product.StockMinimum))

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Error().Err(err).Str("product", product.Name).Msg("low stock mail failed")
	}
}
