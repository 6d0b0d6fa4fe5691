// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/config"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
)

// NotificationService delivers order emails and admin console notifications.
// All of its callers treat failures as retryable (the outbox relay) or
// ignorable (nothing on the request path calls it directly).
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

const orderConfirmationTemplate = `
<h2>Thanks for your order, {{.CustomerName}}!</h2>
<p>Your order <strong>{{.OrderNumber}}</strong> has been placed successfully.</p>
<table>
  <tr><td>Subtotal</td><td>₹{{printf "%.2f" .Subtotal}}</td></tr>
  <tr><td>Shipping</td><td>₹{{printf "%.2f" .Shipping}}</td></tr>
  <tr><td>Tax</td><td>₹{{printf "%.2f" .Tax}}</td></tr>
  {{if gt .Discount 0.0}}<tr><td>Discount</td><td>-₹{{printf "%.2f" .Discount}}</td></tr>{{end}}
  <tr><td><strong>Total</strong></td><td><strong>₹{{printf "%.2f" .Total}}</strong></td></tr>
</table>
<p><a href="{{.OrderURL}}">Track your order</a></p>
`

const sellerNewOrderTemplate = `
<h2>New order received</h2>
<p>Hi {{.SellerName}}, order <strong>{{.OrderNumber}}</strong> includes {{.ItemCount}} of your item(s).</p>
<p><a href="{{.DashboardURL}}">Open your seller dashboard</a> to start fulfilment.</p>
`

const orderCancelledTemplate = `
<h2>Order cancelled</h2>
<p>Hi {{.CustomerName}}, your order <strong>{{.OrderNumber}}</strong> has been cancelled.</p>
<p>Any reserved items have been released.</p>
`

// SendOrderConfirmation mails the customer their pricing breakdown.
func (s *NotificationService) SendOrderConfirmation(order *models.Order) error {
	email := s.recipientEmail(order)
	if email == "" {
		return nil
	}

	data := map[string]interface{}{
		"CustomerName": order.Customer.Name,
		"OrderNumber":  order.OrderNumber,
		"Subtotal":     order.Subtotal,
		"Shipping":     order.Shipping,
		"Tax":          order.Tax,
		"Discount":     order.Discount,
		"Total":        order.Total,
		"OrderURL":     fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	body, err := s.renderTemplate(orderConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Order Confirmation - " + order.OrderNumber
	return s.sendEmail(email, subject, body)
}

// SendNewOrderNotificationToSeller mails one seller about their share of
// the order.
func (s *NotificationService) SendNewOrderNotificationToSeller(seller *models.User, order *models.Order) error {
	if seller.Email == "" {
		return nil
	}

	itemCount := 0
	for _, item := range order.Items {
		if item.SellerID == seller.ID {
			itemCount += item.Quantity
		}
	}

	data := map[string]interface{}{
		"SellerName":   seller.Name,
		"OrderNumber":  order.OrderNumber,
		"ItemCount":    itemCount,
		"DashboardURL": fmt.Sprintf("%s/seller/orders", s.config.Frontend.BaseURL),
	}

	body, err := s.renderTemplate(sellerNewOrderTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "New Order - " + order.OrderNumber
	return s.sendEmail(seller.Email, subject, body)
}

// NotifyAdminNewOrder records the order on the admin console feed and mails
// the admin inbox.
func (s *NotificationService) NotifyAdminNewOrder(order *models.Order) error {
	orderID := order.ID
	notification := &models.AdminNotification{
		Type:                "new_order",
		Title:               "New Order " + order.OrderNumber,
		Message:             fmt.Sprintf("Order %s placed for ₹%.2f (%d items)", order.OrderNumber, order.Total, len(order.Items)),
		Priority:            "medium",
		RelatedResourceType: "order",
		RelatedResourceID:   &orderID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create admin notification: %w", err)
	}

	if s.config.Email.AdminEmail == "" {
		return nil
	}
	return s.sendEmail(s.config.Email.AdminEmail, notification.Title, "<p>"+notification.Message+"</p>")
}

// SendOrderCancelled mails the customer that their cancellation went through.
func (s *NotificationService) SendOrderCancelled(order *models.Order) error {
	email := s.recipientEmail(order)
	if email == "" {
		return nil
	}

	data := map[string]interface{}{
		"CustomerName": order.Customer.Name,
		"OrderNumber":  order.OrderNumber,
	}

	body, err := s.renderTemplate(orderCancelledTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Order Cancelled - " + order.OrderNumber
	return s.sendEmail(email, subject, body)
}

// recipientEmail prefers the address given with the shipping details over
// the account email.
func (s *NotificationService) recipientEmail(order *models.Order) string {
	if order.Address.Email != "" {
		return order.Address.Email
	}
	return order.Customer.Email
}

func (s *NotificationService) renderTemplate(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) sendEmail(to, subject, htmlBody string) error {
	cfg := s.config.Email
	if cfg.SMTPUsername == "" {
		// Email is not configured in this environment; treat as delivered.
		return nil
	}

	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, htmlBody,
	))

	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	addr := cfg.SMTPHost + ":" + cfg.SMTPPort

	if err := smtp.SendMail(addr, auth, cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
