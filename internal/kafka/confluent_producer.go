package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/Dayavats/samvaad/pkg/log"
)

// ConfluentProducer implements EventProducer on Kafka.
type ConfluentProducer struct {
	producer *kafka.Producer
	topic    string
	doneCh   chan struct{}
}

// NewConfluentProducer creates the producer and ensures the topic
// exists with the desired partition count.
func NewConfluentProducer(brokers, topic string, partitions int) (*ConfluentProducer, error) {
	if err := ensureTopic(brokers, topic, partitions); err != nil {
		l := log.L()
		l.Warn().Err(err).Str("topic", topic).Msg("failed to ensure topic (may already exist)")
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "1",
		"linger.ms":         5,
		"compression.type":  "snappy",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	cp := &ConfluentProducer{
		producer: p,
		topic:    topic,
		doneCh:   make(chan struct{}),
	}

	go cp.deliveryReportHandler()

	return cp, nil
}

func ensureTopic(brokers, topic string, partitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{
		{
			Topic:             topic,
			NumPartitions:     partitions,
			ReplicationFactor: 1,
		},
	})
	if err != nil {
		return err
	}

	for _, result := range results {
		if result.Error.Code() != kafka.ErrNoError && result.Error.Code() != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("failed to create topic %s: %v", result.Topic, result.Error)
		}
	}

	return nil
}

func (cp *ConfluentProducer) deliveryReportHandler() {
	for e := range cp.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				l := log.L()
				l.Warn().Err(ev.TopicPartition.Error).Msg("kafka delivery failed")
			}
		}
	}
	close(cp.doneCh)
}

// ProduceMessageSent publishes an event keyed by conversation ID so
// one conversation's events stay on one partition, in order.
func (cp *ConfluentProducer) ProduceMessageSent(ctx context.Context, event *MessageSentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = cp.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &cp.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.ConversationID),
		Value: value,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to produce event: %w", err)
	}

	return nil
}

func (cp *ConfluentProducer) Close() error {
	cp.producer.Flush(5000)
	cp.producer.Close()
	<-cp.doneCh
	return nil
}
