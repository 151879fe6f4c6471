package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"resume-iq-go/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageQueue 消息队列接口
type MessageQueue interface {
	// PublishMessage 发布原始字节消息
	PublishMessage(ctx context.Context, exchangeName, routingKey string, message []byte, persistent bool) error

	// PublishJSON 序列化后发布JSON消息
	PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error

	// EnsureExchange 确保交换机存在
	EnsureExchange(exchangeName, exchangeType string, durable bool) error

	// EnsureQueue 确保队列存在
	EnsureQueue(queueName string, durable bool) error

	// BindQueue 绑定队列到交换机
	BindQueue(queueName, exchangeName, routingKey string) error

	// Close 关闭连接
	Close() error
}

var _ MessageQueue = (*RabbitMQ)(nil)

// RabbitMQ 消息队列客户端。上传事件和分析事件都经由它流转：
// API层声明拓扑并注册消费者，Outbox中继通过它发布消息。
type RabbitMQ struct {
	conn        *amqp.Connection
	channelPool sync.Pool

	// declared 记录本进程已声明过的拓扑对象，避免重复声明往返。
	// key格式: "exchange/<name>"、"queue/<name>"、"binding/<ex>:<q>:<rk>"
	declaredMu sync.Mutex
	declared   map[string]struct{}

	publishMutex sync.Mutex
	logger       *log.Logger
	cfg          *config.RabbitMQConfig
}

// RabbitMQOption 配置选项
type RabbitMQOption func(*RabbitMQ)

// WithRabbitMQLogger 配置日志记录器
func WithRabbitMQLogger(logger *log.Logger) RabbitMQOption {
	return func(r *RabbitMQ) {
		r.logger = logger
	}
}

// NewRabbitMQ 创建RabbitMQ客户端并验证连接可用
func NewRabbitMQ(cfg *config.RabbitMQConfig, opts ...RabbitMQOption) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器 (%s): %w", cfg.URL, err)
	}

	mq := &RabbitMQ{
		conn:     conn,
		declared: make(map[string]struct{}),
		logger:   log.New(io.Discard, "", 0),
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(mq)
	}

	mq.channelPool = sync.Pool{
		New: func() interface{} {
			ch, chErr := conn.Channel()
			if chErr != nil {
				mq.logger.Printf("创建RabbitMQ通道失败: %v", chErr)
				return nil
			}
			return ch
		},
	}

	// 连接验证：拿不到通道说明连接不可用
	testCh := mq.getChannel()
	if testCh == nil {
		conn.Close()
		return nil, fmt.Errorf("无法创建RabbitMQ通道")
	}
	mq.putChannel(testCh)

	mq.logger.Printf("成功连接到RabbitMQ服务器: %s", cfg.URL)
	return mq, nil
}

func (r *RabbitMQ) getChannel() *amqp.Channel {
	if ch := r.channelPool.Get(); ch != nil {
		return ch.(*amqp.Channel)
	}
	newCh, err := r.conn.Channel()
	if err != nil {
		r.logger.Printf("创建新RabbitMQ通道失败: %v", err)
		return nil
	}
	return newCh
}

func (r *RabbitMQ) putChannel(ch *amqp.Channel) {
	if ch != nil {
		r.channelPool.Put(ch)
	}
}

// markDeclared 记录拓扑对象；返回之前是否已记录。
func (r *RabbitMQ) markDeclared(key string) bool {
	r.declaredMu.Lock()
	defer r.declaredMu.Unlock()
	if _, ok := r.declared[key]; ok {
		return true
	}
	r.declared[key] = struct{}{}
	return false
}

func (r *RabbitMQ) unmarkDeclared(key string) {
	r.declaredMu.Lock()
	defer r.declaredMu.Unlock()
	delete(r.declared, key)
}

// Close 关闭连接
func (r *RabbitMQ) Close() error {
	return r.conn.Close()
}

// EnsureExchange 确保交换机存在
func (r *RabbitMQ) EnsureExchange(exchangeName, exchangeType string, durable bool) error {
	if exchangeName == "" {
		return fmt.Errorf("exchange名称不能为空")
	}
	// 默认交换机不可声明
	if exchangeName == "amq.default" || exchangeName == "default" {
		return fmt.Errorf("不能声明默认交换机 '%s'", exchangeName)
	}
	if r.markDeclared("exchange/" + exchangeName) {
		return nil
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	err := ch.ExchangeDeclare(exchangeName, exchangeType, durable, false, false, false, nil)
	if err != nil {
		r.unmarkDeclared("exchange/" + exchangeName)
		return fmt.Errorf("声明exchange失败: %w", err)
	}

	r.logger.Printf("已确保exchange存在: '%s' (类型: %s)", exchangeName, exchangeType)
	return nil
}

// EnsureQueue 确保队列存在。已在本地记录过的队列用被动声明验证，
// 被动声明失败说明队列被外部删除或参数不匹配，清除记录让下次重新声明。
func (r *RabbitMQ) EnsureQueue(queueName string, durable bool) error {
	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	key := "queue/" + queueName
	if r.markDeclared(key) {
		if _, err := ch.QueueDeclarePassive(queueName, durable, false, false, false, nil); err != nil {
			r.unmarkDeclared(key)
			return fmt.Errorf("被动声明队列 '%s' 失败 (可能不存在或参数不匹配): %w", queueName, err)
		}
		return nil
	}

	if _, err := ch.QueueDeclare(queueName, durable, false, false, false, nil); err != nil {
		r.unmarkDeclared(key)
		return fmt.Errorf("声明队列失败: %w", err)
	}

	r.logger.Printf("已确保队列存在: %s", queueName)
	return nil
}

// BindQueue 绑定队列到交换机
func (r *RabbitMQ) BindQueue(queueName, exchangeName, routingKey string) error {
	key := fmt.Sprintf("binding/%s:%s:%s", exchangeName, queueName, routingKey)
	if r.markDeclared(key) {
		return nil
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	if err := ch.QueueBind(queueName, routingKey, exchangeName, false, nil); err != nil {
		r.unmarkDeclared(key)
		return fmt.Errorf("绑定队列到exchange失败: %w", err)
	}

	r.logger.Printf("已绑定队列 %s 到exchange %s，路由键: %s", queueName, exchangeName, routingKey)
	return nil
}

// PublishMessage 发布消息
func (r *RabbitMQ) PublishMessage(ctx context.Context, exchangeName, routingKey string, message []byte, persistent bool) error {
	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	deliveryMode := amqp.Transient
	if persistent {
		deliveryMode = amqp.Persistent
	}

	return ch.PublishWithContext(
		ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: deliveryMode,
			ContentType:  "application/json",
			Body:         message,
			Timestamp:    time.Now(),
		},
	)
}

// PublishJSON 序列化后发布JSON消息
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}
	return r.PublishMessage(ctx, exchangeName, routingKey, jsonData, persistent)
}

// StartConsumer 注册消费者并启动消费协程。
// handler返回true时Ack，返回false时Nack并重新入队。
// 返回的通道用于停止消费：close后协程退出。
func (r *RabbitMQ) StartConsumer(queueName string, prefetchCount int, handler func([]byte) bool) (<-chan struct{}, error) {
	ch := r.getChannel()
	if ch == nil {
		return nil, fmt.Errorf("无法获取RabbitMQ通道")
	}

	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		r.putChannel(ch)
		return nil, fmt.Errorf("设置QoS失败: %w", err)
	}

	deliveries, err := ch.Consume(
		queueName,
		"",    // 消费者标签由server生成
		false, // 手动确认
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		r.putChannel(ch)
		return nil, fmt.Errorf("注册消费者失败: %w", err)
	}

	stopCh := make(chan struct{})
	go func() {
		defer r.putChannel(ch)
		defer r.logger.Printf("RabbitMQ消费者已停止: %s", queueName)

		r.logger.Printf("RabbitMQ消费者已启动，队列: %s, 预取数量: %d", queueName, prefetchCount)

		for {
			select {
			case <-stopCh:
				return
			case delivery, ok := <-deliveries:
				if !ok {
					r.logger.Printf("RabbitMQ通道已关闭，队列: %s", queueName)
					return
				}
				if handler(delivery.Body) {
					if err := delivery.Ack(false); err != nil {
						r.logger.Printf("确认消息失败: %v", err)
					}
				} else {
					// 处理失败：重新入队，等待重试
					if err := delivery.Nack(false, true); err != nil {
						r.logger.Printf("拒绝消息失败: %v", err)
					}
				}
			}
		}
	}()

	return stopCh, nil
}
