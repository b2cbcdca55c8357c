package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sushihentaime/bloglist/internal/common"
	"golang.org/x/exp/rand"
)

func NewMailService(mb common.MessageConsumer, cfg MailConfig, logger *slog.Logger) *MailService {
	return newMailService(mb, NewMailer(cfg, NewTemplate()), logger)
}

func newMailService(mb common.MessageConsumer, m Mailer, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          m,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}

// SendWelcomeEmails consumes user.created events until Close is called.
func (s *MailService) SendWelcomeEmails() error {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handle(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping welcome mail consumer")
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handle(msg amqp.Delivery) {
	var data userCreated

	err := json.Unmarshal(msg.Body, &data)
	if err != nil || data.Email == "" {
		s.logger.Error("dropping malformed user.created message", slog.Any("error", err))
		_ = msg.Nack(false, false)
		return
	}

	err = s.deliver(data.Email, WelcomeData{Username: data.Username, Name: data.Name})
	if err != nil {
		s.logger.Error("could not send welcome email", slog.String("email", data.Email), slog.String("error", err.Error()))
	}

	// failed mails are not requeued
	_ = msg.Ack(false)
}

// deliver retries with exponential backoff and full jitter.
func (s *MailService) deliver(recipient string, data WelcomeData) error {
	var err error

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.m.send(recipient, data, welcomeTemplate)
		if err == nil {
			s.logger.Info("welcome email sent", slog.String("email", recipient))
			return nil
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying welcome email", slog.String("email", recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}

	return err
}

// Close stops the consumer and waits for the message in flight.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
