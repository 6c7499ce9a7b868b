package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/quant/regime"
)

// EventRegimeAlert 시장 상태 경보 이벤트 타입
const EventRegimeAlert = "MARKET_REGIME_ALERT"

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RegimeAlert 과열/극심한 공포 진입 알림
type RegimeAlert struct {
	EventType   string                 `json:"event_type"`
	Date        time.Time              `json:"date"`
	CombinedADR *float64               `json:"combined_adr"`
	KOSPIADR    *float64               `json:"kospi_adr,omitempty"`
	KOSDAQADR   *float64               `json:"kosdaq_adr,omitempty"`
	Condition   regime.MarketCondition `json:"condition"`
	Label       string                 `json:"label"`
	Strategy    string                 `json:"strategy"`
	Diagnosis   string                 `json:"diagnosis"`
	Timestamp   time.Time              `json:"timestamp"`
}

// NewRegimeAlert 타이밍 결과에서 경보 생성, 경보 대상이 아니면 nil
func NewRegimeAlert(t *regime.Timing, now time.Time) *RegimeAlert {
	if t == nil || t.CombinedADR == nil || !t.OverallCondition.ShouldAlert() {
		return nil
	}

	alert := &RegimeAlert{
		EventType:   EventRegimeAlert,
		Date:        t.AnalysisDate,
		CombinedADR: t.CombinedADR,
		Condition:   t.OverallCondition,
		Label:       t.OverallCondition.Label(),
		Strategy:    t.Strategy,
		Diagnosis:   t.Diagnosis,
		Timestamp:   now,
	}
	if t.KOSPI != nil {
		alert.KOSPIADR = t.KOSPI.ADR20
	}
	if t.KOSDAQ != nil {
		alert.KOSDAQADR = t.KOSDAQ.ADR20
	}
	return alert
}

// Producer handles publishing regime alerts to Kafka
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg config.KafkaConfig) *Producer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: batchTimeout,
	}

	return &Producer{
		writer: writer,
		topic:  cfg.AlertTopic,
	}
}

// Topic 발행 토픽
func (p *Producer) Topic() string {
	return p.topic
}

// PublishRegimeAlert 경보 발행 (키: 평가일)
func (p *Producer) PublishRegimeAlert(ctx context.Context, alert *RegimeAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal regime alert: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(alert.Date.Format("2006-01-02")),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(alert.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write regime alert to kafka: %w", err)
	}
	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
