package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"resume-fit-go/internal/config"
	"resume-fit-go/internal/logger"
)

// EventPublisher 匹配事件发布接口
type EventPublisher interface {
	// PublishJSON 发布JSON消息到指定交换机
	PublishJSON(ctx context.Context, exchangeName, routingKey string, data any, persistent bool) error

	// EnsureExchange 确保交换机存在
	EnsureExchange(exchangeName, exchangeType string, durable bool) error

	// Close 关闭连接
	Close() error
}

var _ EventPublisher = (*RabbitMQ)(nil)

// RabbitMQ 匹配完成事件的发布端
type RabbitMQ struct {
	conn        *amqp.Connection
	channelPool sync.Pool

	mu          sync.Mutex
	exchangeMap map[string]bool // 已声明的交换机
}

// NewRabbitMQ 创建RabbitMQ连接
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器 (%s): %w", cfg.URL, err)
	}

	mq := &RabbitMQ{
		conn:        conn,
		exchangeMap: make(map[string]bool),
	}
	mq.channelPool = sync.Pool{
		New: func() any {
			ch, err := conn.Channel()
			if err != nil {
				logger.Error().Err(err).Msg("创建RabbitMQ通道失败")
				return nil
			}
			return ch
		},
	}

	testCh := mq.getChannel()
	if testCh == nil {
		conn.Close()
		return nil, fmt.Errorf("无法创建RabbitMQ通道")
	}
	mq.putChannel(testCh)

	logger.Info().Str("url", cfg.URL).Msg("已连接到RabbitMQ服务器")
	return mq, nil
}

func (r *RabbitMQ) getChannel() *amqp.Channel {
	ch := r.channelPool.Get()
	if ch == nil {
		newCh, err := r.conn.Channel()
		if err != nil {
			logger.Error().Err(err).Msg("创建新RabbitMQ通道失败")
			return nil
		}
		return newCh
	}
	return ch.(*amqp.Channel)
}

func (r *RabbitMQ) putChannel(ch *amqp.Channel) {
	if ch != nil && !ch.IsClosed() {
		r.channelPool.Put(ch)
	}
}

// EnsureExchange 声明交换机，同一交换机只声明一次
func (r *RabbitMQ) EnsureExchange(exchangeName, exchangeType string, durable bool) error {
	if exchangeName == "" {
		return fmt.Errorf("exchange名称不能为空")
	}

	r.mu.Lock()
	declared := r.exchangeMap[exchangeName]
	r.mu.Unlock()
	if declared {
		return nil
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	if err := ch.ExchangeDeclare(exchangeName, exchangeType, durable, false, false, false, nil); err != nil {
		return fmt.Errorf("声明交换机 %s 失败: %w", exchangeName, err)
	}

	r.mu.Lock()
	r.exchangeMap[exchangeName] = true
	r.mu.Unlock()
	return nil
}

// PublishJSON 序列化并发布JSON消息
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchangeName, routingKey string, data any, persistent bool) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("无法获取RabbitMQ通道")
	}
	defer r.putChannel(ch)

	deliveryMode := amqp.Transient
	if persistent {
		deliveryMode = amqp.Persistent
	}

	err = ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: deliveryMode,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("发布消息到 %s/%s 失败: %w", exchangeName, routingKey, err)
	}

	logger.Debug().
		Str("exchange", exchangeName).
		Str("routing_key", routingKey).
		Int("bytes", len(body)).
		Msg("事件已发布")
	return nil
}

// Close 关闭连接
func (r *RabbitMQ) Close() error {
	return r.conn.Close()
}
