package outbox

import (
	"context"
	"strconv"
	"time"

	"resume-iq-go/internal/storage"
	"resume-iq-go/internal/storage/models"
	"resume-iq-go/internal/tracing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPollingInterval = 5 * time.Second // 轮询outbox表的间隔
	defaultBatchSize       = 10              // 单次轮询处理的消息上限
	maxRetryCount          = 5               // 发布失败重试上限，超过后标记FAILED
)

// MessageRelay 轮询outbox表并把消息发布到RabbitMQ。
// 上传接口在同一个数据库事务里写业务行和outbox行，由中继保证消息最终送达。
type MessageRelay struct {
	db              *gorm.DB
	publisher       *storage.RabbitMQ
	log             zerolog.Logger
	pollingInterval time.Duration
	batchSize       int
	done            chan struct{}
	tracer          trace.Tracer
}

// RelayOption 配置MessageRelay。
type RelayOption func(*MessageRelay)

// WithPollingInterval 覆盖默认轮询间隔。
func WithPollingInterval(d time.Duration) RelayOption {
	return func(r *MessageRelay) {
		if d > 0 {
			r.pollingInterval = d
		}
	}
}

// WithBatchSize 覆盖单次轮询的批量大小。
func WithBatchSize(n int) RelayOption {
	return func(r *MessageRelay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// NewMessageRelay 创建消息中继。
func NewMessageRelay(db *gorm.DB, publisher *storage.RabbitMQ, log zerolog.Logger, opts ...RelayOption) *MessageRelay {
	r := &MessageRelay{
		db:              db,
		publisher:       publisher,
		log:             log.With().Str("component", "outbox_relay").Logger(),
		pollingInterval: defaultPollingInterval,
		batchSize:       defaultBatchSize,
		done:            make(chan struct{}),
		tracer:          otel.Tracer("outbox-relay"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start 启动轮询。
func (r *MessageRelay) Start() {
	r.log.Info().Dur("interval", r.pollingInterval).Msg("Outbox中继启动")
	ticker := time.NewTicker(r.pollingInterval)

	go func() {
		for {
			select {
			case <-r.done:
				ticker.Stop()
				r.log.Info().Msg("Outbox中继已停止")
				return
			case <-ticker.C:
				if err := r.processPendingMessages(context.Background()); err != nil {
					r.log.Error().Err(err).Msg("处理待发布消息失败")
				}
			}
		}
	}()
}

// Stop 停止轮询。
func (r *MessageRelay) Stop() {
	close(r.done)
}

// processPendingMessages 取出并处理一批待发布消息。
func (r *MessageRelay) processPendingMessages(ctx context.Context) error {
	var messages []models.OutboxMessage

	// 查询和状态更新在同一个事务内完成。
	// 空轮询不建Span，避免追踪后端被心跳数据淹没。
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback() // 提交后回滚是无操作

	// FOR UPDATE SKIP LOCKED：多实例部署时跳过他人已锁定的行，天然分片
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", models.OutboxStatusPending).
		Order("created_at asc").
		Limit(r.batchSize).
		Find(&messages).Error

	if err != nil {
		r.log.Error().Err(err).Msg("查询待发布消息失败")
		return err
	}

	if len(messages) == 0 {
		return tx.Commit().Error
	}

	ctx, span := r.tracer.Start(ctx, "outbox.ProcessBatch",
		trace.WithAttributes(
			attribute.Int("messaging.batch.message_count", len(messages)),
		),
	)
	defer span.End()

	r.log.Debug().Int("count", len(messages)).Msg("取到待发布消息")

	for _, msg := range messages {
		err := r.publisher.PublishMessage(
			ctx,
			msg.TargetExchange,
			msg.TargetRoutingKey,
			[]byte(msg.Payload),
			true, // 持久化消息
		)

		if err != nil {
			tracing.RecordPublishFailure(span, strconv.FormatUint(msg.ID, 10), err.Error())
			r.log.Warn().Err(err).
				Uint64("message_id", msg.ID).
				Str("aggregate_id", msg.AggregateID).
				Int("retry_count", msg.RetryCount+1).
				Msg("消息发布失败")
			msg.RetryCount++
			msg.ErrorMessage = err.Error()
			if msg.RetryCount >= maxRetryCount {
				msg.Status = models.OutboxStatusFailed
			}
		} else {
			msg.Status = models.OutboxStatusSent
			now := time.Now()
			msg.ProcessedAt = &now
			msg.ErrorMessage = ""
		}

		// 更新失败时整个事务回滚，消息保持PENDING，下一轮重新拾取
		if err := tx.Save(&msg).Error; err != nil {
			r.log.Error().Err(err).Uint64("message_id", msg.ID).Msg("更新消息状态失败")
			return err
		}
	}

	return tx.Commit().Error
}
