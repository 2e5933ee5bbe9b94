package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// LogSender registra el aviso en el log. Útil en desarrollo y como respaldo.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, n inventory.Notice) error {
	s.log.Info().
		Str("alert_id", n.AlertID).
		Str("alert_type", n.AlertType).
		Str("product_id", n.ProductID).
		Str("sku", n.SKU).
		Msg(n.Subject)
	return nil
}

// mailDialer lo implementa *gomail.Dialer.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender envía el aviso por SMTP.
type EmailSender struct {
	dialer mailDialer
	from   string
	to     []string
}

// NewEmailSender construye el sender con un gomail.Dialer.
func NewEmailSender(host string, port int, user, password, from string, to []string) *EmailSender {
	return &EmailSender{dialer: gomail.NewDialer(host, port, user, password), from: from, to: to}
}

func (s *EmailSender) Name() string { return "email" }

// Send no respeta ctx: gomail no acepta contexto y el timeout lo impone el dialer.
func (s *EmailSender) Send(_ context.Context, n inventory.Notice) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", n.Body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar email: %w", err)
	}
	return nil
}

// messageWriter lo implementa *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// alertEvent payload JSON publicado en el tópico de alertas.
type alertEvent struct {
	AlertID   string    `json:"alert_id"`
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// KafkaSender publica el aviso como evento con clave = product_id.
type KafkaSender struct {
	writer messageWriter
}

// NewKafkaSender construye el writer hacia topic.
func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}}
}

func (s *KafkaSender) Name() string { return "kafka" }

func (s *KafkaSender) Send(ctx context.Context, n inventory.Notice) error {
	payload, err := json.Marshal(alertEvent{
		AlertID:   n.AlertID,
		Type:      n.AlertType,
		ProductID: n.ProductID,
		SKU:       n.SKU,
		Message:   n.Body,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := kafka.Message{
		Key:     []byte(n.ProductID),
		Value:   payload,
		Time:    n.CreatedAt,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(n.AlertType)}},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar evento de alerta: %w", err)
	}
	return nil
}

// Close libera el writer.
func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
