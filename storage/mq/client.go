package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"TeatimeAuthority/config"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

const (
	// ExchangeDelayed 延迟消息交换机，依赖 rabbitmq_delayed_message_exchange 插件
	ExchangeDelayed = "scheduler.delayed"
	// ExchangeNotification 推送通知交换机
	ExchangeNotification = "notification.topic"

	QueueTeatimeReminder = "scheduler.teatime.reminder"
	QueueWindowOpen      = "scheduler.teatime.open"
	QueueWindowClose     = "scheduler.teatime.close"
	QueuePushDelivery    = "notification.push"
)

func Init() error {
	connOnce.Do(func() {
		url := config.Cfg.GetRabbitMQURL()
		conn, connErr = amqp.Dial(url)
		if connErr != nil {
			return
		}

		connErr = declareTopology()
	})

	return connErr
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// declareTopology 声明交换机、队列和绑定，幂等
func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open topology channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		ExchangeDelayed,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "topic"},
	); err != nil {
		return fmt.Errorf("failed to declare delayed exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeNotification,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare notification exchange: %w", err)
	}

	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{QueueTeatimeReminder, ExchangeDelayed, QueueTeatimeReminder},
		{QueueWindowOpen, ExchangeDelayed, QueueWindowOpen},
		{QueueWindowClose, ExchangeDelayed, QueueWindowClose},
		{QueuePushDelivery, ExchangeNotification, "notification.push.*"},
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}
		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", b.queue, err)
		}
	}

	return nil
}
