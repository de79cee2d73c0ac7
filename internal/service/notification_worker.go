package service

import (
	"encoding/json"

	"streamify-backend/internal/util"
	"streamify-backend/internal/websocket"
	"streamify-backend/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// NotificationWorker consumes mutation events from RabbitMQ and pushes
// them to connected clients through the WebSocket hub.
type NotificationWorker struct {
	rabbitMQ *util.RabbitMQClient
	wsHub    *websocket.Hub
	stopChan chan struct{}
}

func NewNotificationWorker(rabbitMQ *util.RabbitMQClient, wsHub *websocket.Hub) *NotificationWorker {
	return &NotificationWorker{
		rabbitMQ: rabbitMQ,
		wsHub:    wsHub,
		stopChan: make(chan struct{}),
	}
}

// Start declares the notification topology and begins consuming.
func (w *NotificationWorker) Start() error {
	if w.rabbitMQ == nil {
		return nil // RabbitMQ not available, worker will not start
	}

	if err := w.rabbitMQ.DeclareTopology(NotificationExchange, NotificationQueueName, NotificationRoutingKey); err != nil {
		return err
	}

	msgs, err := w.rabbitMQ.GetChannel().Consume(
		NotificationQueueName,
		"notification_worker",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.Log.Info("notification worker started")
		for {
			select {
			case <-w.stopChan:
				logger.Log.Info("notification worker stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Log.Warn("notification queue closed")
					return
				}
				if err := w.process(msg); err != nil {
					logger.Log.Error("failed to process notification message", zap.Error(err))
					msg.Nack(false, true)
				} else {
					msg.Ack(false)
				}
			}
		}
	}()

	return nil
}

func (w *NotificationWorker) process(msg amqp.Delivery) error {
	var event NotificationMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return err
	}

	if w.wsHub != nil {
		payload := map[string]interface{}{
			"type":        event.Type,
			"message":     event.Message,
			"invalidates": event.Invalidates,
			"timestamp":   event.Timestamp,
		}
		for k, v := range event.Data {
			payload[k] = v
		}
		w.wsHub.BroadcastToUser(event.UserID, payload)
	}

	return nil
}

// Stop stops the worker
func (w *NotificationWorker) Stop() {
	close(w.stopChan)
}
