package repository

import (
	"context"

	"SentiPull/internal/domain/models"
	domrepo "SentiPull/internal/domain/repository"
	pkgkafka "SentiPull/pkg/kafka"
)

// KafkaPublisher implements Publisher over a Kafka topic. Messages are keyed
// by symbol so per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishSentiment(ctx context.Context, rows []models.AggregatedSentiment) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(rows))
	for i, r := range rows {
		msgs[i] = pkgkafka.Message{
			Key: []byte(r.Symbol),
			Value: map[string]interface{}{
				"type":         "sentiment",
				"symbol":       r.Symbol,
				"bucket_start": r.BucketStart.Unix(),
				"mean_score":   r.MeanScore,
				"item_count":   r.ItemCount,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) PublishCorrelations(ctx context.Context, rows []models.CorrelationResult) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(rows))
	for i, r := range rows {
		msgs[i] = pkgkafka.Message{
			Key: []byte(r.Symbol),
			Value: map[string]interface{}{
				"type":        "correlation",
				"symbol":      r.Symbol,
				"lag":         r.Lag,
				"indicator":   r.IndicatorName,
				"coefficient": r.Coefficient,
				"sample_size": r.SampleSize,
				"p_value":     r.PValue,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
