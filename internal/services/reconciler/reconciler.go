// Package reconciler читает алерты о платежах из очереди и отправляет
// оператору письмо для ручной сверки.
package reconciler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/gita-guidance/internal/lib/sl"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/smtp"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
)

// Service отправляет письма о платежах, требующих ручного вмешательства.
type Service struct {
	transport     smtp.TransportInterface
	operatorEmail string
	log           *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, operatorEmail string, log *slog.Logger) *Service {
	return &Service{
		transport:     transport,
		operatorEmail: operatorEmail,
		log:           log,
	}
}

// SendReconciliationAlert разбирает сообщение очереди и отправляет письмо оператору.
func (s *Service) SendReconciliationAlert(body []byte) error {
	var alert models.ReconciliationAlert
	if err := json.Unmarshal(body, &alert); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.operatorEmail}
	subject := "Требуется ручная сверка платежа"
	bodyText := fmt.Sprintf(`Платёж захвачен, но обновление аккаунта завершилось с ошибкой.

Пользователь: %s
Транзакция: %s
Сумма: %s %s
Причина: %s

Проверьте состояние аккаунта и записи о транзакции вручную.`,
		alert.Email, alert.TransactionID, alert.Amount, alert.Currency, alert.Reason)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("reconciliation email sent", slog.Any("to", to))
	return nil
}
