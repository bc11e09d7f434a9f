package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/segmentio/kafka-go"
)

type IResultProducer interface {
	PublishResult(ctx context.Context, clientToken string, result *model.Result) error
	Close() error
}

// ResultProducer 把操作結果廣播出去，gateway 端依 client_token 回推給前端
type ResultProducer struct {
	writer *kafka.Writer
}

func NewResultProducer(brokers []string, topic string) *ResultProducer {
	return &ResultProducer{writer: newWriter(brokers, topic)}
}

func (p *ResultProducer) PublishResult(ctx context.Context, clientToken string, result *model.Result) error {
	payload, err := json.Marshal(model.ResultMessage{ClientToken: clientToken, Result: result})
	if err != nil {
		return fmt.Errorf("marshal result message: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(clientToken),
		Value: payload,
	})
}

func (p *ResultProducer) Close() error {
	return p.writer.Close()
}

var _ IResultProducer = (*ResultProducer)(nil)
