package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/intesigroup/user-registry/config"
	userapp "github.com/intesigroup/user-registry/internal/application"
	"github.com/intesigroup/user-registry/pkg/helpers"
)

// Example consumer for user.created events. Delivery is at-most-once from
// the registry's point of view; this worker only demonstrates the consuming
// side of the topic exchange.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-worker", cfg.Env)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if err := ch.ExchangeDeclare(cfg.EventsExchange, "topic", true, false, false, false, nil); err != nil {
		log.Fatalf("exchange declare: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.UserCreatedQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}
	if err := ch.QueueBind(cfg.UserCreatedQueue, userapp.RoutingKeyUserCreated, cfg.EventsExchange, false, nil); err != nil {
		log.Fatalf("queue bind: %v", err)
	}

	msgs, err := ch.Consume(cfg.UserCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var event userapp.UserCreatedEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				logger.WithError(err).Warn("bad message")
				_ = msg.Nack(false, false)
				continue
			}
			logger.WithFields(logrus.Fields{
				"user_id": event.ID,
				"email":   event.Email,
				"roles":   event.Roles,
			}).Info("user created")
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("event worker listening on queue=%s", cfg.UserCreatedQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
