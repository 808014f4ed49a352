// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/storefront/internal/domain/order"
)

type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendOrderConfirmation sends the confirmation for a placed order to the
// customer's email from the order snapshot.
func (s *Service) SendOrderConfirmation(e order.Placed) error {
	shortID := e.OrderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	subject := fmt.Sprintf("Order confirmed (#%s)", shortID)
	body := BuildOrderConfirmationBody(e)
	return s.send(e.CustomerEmail, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
