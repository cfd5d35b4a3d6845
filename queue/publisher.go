package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// Publisher publica eventos de domínio em filas.
type Publisher interface {
	Publish(ctx context.Context, queueName string, payload any) error
	Close() error
}

// RabbitPublisher mantém uma conexão com o RabbitMQ e reconecta sob demanda.
type RabbitPublisher struct {
	url string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	p := &RabbitPublisher{url: url, declared: map[string]bool{}}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RabbitPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel: %w", err)
	}
	p.conn, p.ch = conn, ch
	p.declared = map[string]bool{}
	return nil
}

// Publish serializa payload em JSON e publica como mensagem persistente na fila
// (exchange padrão, routing key = nome da fila).
func (p *RabbitPublisher) Publish(ctx context.Context, queueName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	if !p.declared[queueName] {
		// durable para sobreviver a restart do broker
		if _, err := p.ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbitmq: queue declare: %w", err)
		}
		p.declared[queueName] = true
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher apenas registra o evento no log; usado quando não há RabbitMQ.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, queueName string, payload any) error {
	log.WithFields(log.Fields{"queue": queueName, "payload": payload}).Info("Evento publicado (sem broker)")
	return nil
}

func (LogPublisher) Close() error { return nil }
