package storage

import (
	"encoding/json"
	"fmt"

	"resume-iq-go/internal/storage/models"

	"gorm.io/gorm"
)

// WriteOutboxMessage 在业务事务内写入一条outbox记录。
// 消息与业务数据在同一事务中落库，由MessageRelay异步发布到RabbitMQ，
// 保证业务状态与消息发布的最终一致性。
func WriteOutboxMessage(tx *gorm.DB, aggregateID, eventType string, payload interface{}, exchange, routingKey string) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化outbox payload失败: %w", err)
	}

	entry := models.OutboxMessage{
		AggregateID:      aggregateID,
		EventType:        eventType,
		Payload:          string(payloadBytes),
		TargetExchange:   exchange,
		TargetRoutingKey: routingKey,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("插入outbox记录失败: %w", err)
	}
	return nil
}
