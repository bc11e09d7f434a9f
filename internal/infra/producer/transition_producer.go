package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/segmentio/kafka-go"
)

type ITransitionProducer interface {
	PublishSenderTransition(ctx context.Context, cmd *model.StatusCommand) error
	PublishReceiverTransition(ctx context.Context, cmd *model.StatusCommand) error
	Close() error
}

// TransitionProducer 把狀態變更指令推進佇列，由 consumer 非同步執行
// 以目標 id 當 key，同一筆訂單的指令保持順序
type TransitionProducer struct {
	sender   *kafka.Writer
	receiver *kafka.Writer
}

func NewTransitionProducer(brokers []string, senderTopic, receiverTopic string) *TransitionProducer {
	return &TransitionProducer{
		sender:   newWriter(brokers, senderTopic),
		receiver: newWriter(brokers, receiverTopic),
	}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

func publishCommand(ctx context.Context, writer *kafka.Writer, cmd *model.StatusCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal status command: %w", err)
	}
	return writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(cmd.ID), 10)),
		Value: payload,
	})
}

func (p *TransitionProducer) PublishSenderTransition(ctx context.Context, cmd *model.StatusCommand) error {
	return publishCommand(ctx, p.sender, cmd)
}

func (p *TransitionProducer) PublishReceiverTransition(ctx context.Context, cmd *model.StatusCommand) error {
	return publishCommand(ctx, p.receiver, cmd)
}

func (p *TransitionProducer) Close() error {
	if err := p.sender.Close(); err != nil {
		return err
	}
	return p.receiver.Close()
}

var _ ITransitionProducer = (*TransitionProducer)(nil)
