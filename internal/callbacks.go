package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"payparts/entity"
	"payparts/services"
)

// LogCallbackHandler records verified callbacks in the log.
type LogCallbackHandler struct {
	logger services.LogHandler
}

func NewLogCallbackHandler(logger services.LogHandler) *LogCallbackHandler {
	return &LogCallbackHandler{logger: logger}
}

func (h *LogCallbackHandler) HandleCallback(_ context.Context, response *entity.Response) error {
	state := response.Lifecycle()
	h.logger.Info(fmt.Sprintf("order %s: %s (%s) %s", response.OrderId, state, state.Class(), response.Text()))
	return nil
}

// CallbackEvent is the message published for every accepted callback.
type CallbackEvent struct {
	OrderId      string            `json:"orderId"`
	PaymentState string            `json:"paymentState"`
	Class        entity.StateClass `json:"class"`
	Message      string            `json:"message,omitempty"`
	ReceivedAt   time.Time         `json:"receivedAt"`
}

// KafkaPublisher forwards callbacks to a topic, keyed by order id, so
// events of one order stay in one partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   services.LogHandler
}

// NewKafkaProducer connects a synchronous producer that waits for all in-sync replicas.
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	conf := sarama.NewConfig()
	conf.Producer.RequiredAcks = sarama.WaitForAll
	conf.Producer.Retry.Max = 3
	conf.Producer.Return.Successes = true
	producer, err := sarama.NewSyncProducer(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, logger services.LogHandler) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

func (p *KafkaPublisher) HandleCallback(_ context.Context, response *entity.Response) error {
	event := CallbackEvent{
		OrderId:      response.OrderId,
		PaymentState: response.PaymentState,
		Class:        response.Lifecycle().Class(),
		Message:      response.Text(),
		ReceivedAt:   time.Now().UTC(),
	}
	if event.PaymentState == "" {
		event.PaymentState = response.State
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderId),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", event.OrderId, err)
	}
	p.logger.Debug(fmt.Sprintf("order %s published to %s/%d at %d", event.OrderId, p.topic, partition, offset))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
