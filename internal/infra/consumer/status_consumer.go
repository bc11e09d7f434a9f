package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

// Config 兩個指令 topic 共用同一個 consumer group
type Config struct {
	Brokers       []string
	SenderTopic   string
	ReceiverTopic string
	GroupID       string
}

/*
StatusConsumer 消化狀態變更指令並廣播結果

業務上的失敗（驗證不過、狀態不對）一樣算處理完成，結果帶 fail/error 回去並提交 offset。
只有基礎設施故障（DB、Redis 掛掉）不提交，等待重新投遞。
*/
type StatusConsumer struct {
	senderReader   *kafka.Reader
	receiverReader *kafka.Reader
	lifecycle      service.ILifecycleService
	results        producer.IResultProducer
	logger         zerolog.Logger
}

func NewStatusConsumer(
	cfg Config,
	lifecycle service.ILifecycleService,
	results producer.IResultProducer,
	logger zerolog.Logger,
) *StatusConsumer {
	return &StatusConsumer{
		senderReader:   newReader(cfg.Brokers, cfg.SenderTopic, cfg.GroupID),
		receiverReader: newReader(cfg.Brokers, cfg.ReceiverTopic, cfg.GroupID),
		lifecycle:      lifecycle,
		results:        results,
		logger:         logger,
	}
}

func newReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
		Dialer: &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
			KeepAlive: 30 * time.Second,
		},
	})
}

// Start 阻塞執行到 ctx 取消
func (c *StatusConsumer) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.consume(gctx, c.senderReader, c.handleSender)
	})
	g.Go(func() error {
		return c.consume(gctx, c.receiverReader, c.handleReceiver)
	})
	return g.Wait()
}

func (c *StatusConsumer) consume(ctx context.Context, reader *kafka.Reader, handle func(context.Context, *model.StatusCommand) (*model.Result, error)) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error().Err(err).Str("topic", reader.Config().Topic).Msg("fetch message failed")
			continue
		}

		var cmd model.StatusCommand
		if err := json.Unmarshal(msg.Value, &cmd); err != nil {
			// 格式錯誤的訊息重送也不會成功，直接提交跳過
			c.logger.Error().Err(err).Str("topic", reader.Config().Topic).Msg("malformed status command")
			if err := reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error().Err(err).Msg("commit message failed")
			}
			continue
		}

		result, err := handle(ctx, &cmd)
		if err != nil {
			// 基礎設施故障，不提交 offset，等待重新投遞
			c.logger.Error().Err(err).Uint("id", cmd.ID).Str("topic", reader.Config().Topic).Msg("status command failed")
			continue
		}

		if err := c.results.PublishResult(ctx, cmd.ClientToken, result); err != nil {
			c.logger.Error().Err(err).Str("client_token", cmd.ClientToken).Msg("publish result failed")
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error().Err(err).Msg("commit message failed")
		}
	}
}

func (c *StatusConsumer) handleSender(ctx context.Context, cmd *model.StatusCommand) (*model.Result, error) {
	return c.lifecycle.UpdateCartStatusSender(ctx, cmd.JWT, cmd.ID, model.ItemCompleted(cmd.Status))
}

func (c *StatusConsumer) handleReceiver(ctx context.Context, cmd *model.StatusCommand) (*model.Result, error) {
	return c.lifecycle.UpdateCartStatusReceiver(ctx, cmd.JWT, cmd.ID, model.ItemReceived(cmd.Status))
}

func (c *StatusConsumer) Close() error {
	if err := c.senderReader.Close(); err != nil {
		return err
	}
	return c.receiverReader.Close()
}
