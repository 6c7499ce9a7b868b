package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/quant/regime"
)

type mockWriter struct {
	mu         sync.Mutex
	msgs       []kafka.Message
	err        error
	closeCalls int
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *mockWriter) Close() error {
	w.mu.Lock()
	w.closeCalls++
	w.mu.Unlock()
	return nil
}

func adr(v float64) *float64 { return &v }

func fearTiming() *regime.Timing {
	return &regime.Timing{
		AnalysisDate:     time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		CombinedADR:      adr(55.2),
		KOSPI:            &regime.MarketStatus{ADR20: adr(58.0)},
		KOSDAQ:           &regime.MarketStatus{ADR20: adr(52.1)},
		OverallCondition: regime.ConditionExtremeFear,
		Strategy:         regime.ConditionExtremeFear.Suggestion(),
		Diagnosis:        "종합 ADR(20일): 55.2",
	}
}

func TestNewRegimeAlert(t *testing.T) {
	now := time.Date(2024, 3, 4, 16, 40, 0, 0, time.UTC)

	alert := NewRegimeAlert(fearTiming(), now)
	require.NotNil(t, alert)
	assert.Equal(t, EventRegimeAlert, alert.EventType)
	assert.Equal(t, regime.ConditionExtremeFear, alert.Condition)
	assert.Equal(t, "공포", alert.Label)
	assert.Equal(t, 58.0, *alert.KOSPIADR)
	assert.Equal(t, 52.1, *alert.KOSDAQADR)
	assert.Equal(t, now, alert.Timestamp)

	normal := fearTiming()
	normal.OverallCondition = regime.ConditionNormal
	assert.Nil(t, NewRegimeAlert(normal, now))

	missing := fearTiming()
	missing.CombinedADR = nil
	assert.Nil(t, NewRegimeAlert(missing, now))
	assert.Nil(t, NewRegimeAlert(nil, now))
}

func TestPublishRegimeAlert(t *testing.T) {
	w := &mockWriter{}
	p := &Producer{writer: w, topic: "market-regime-alerts"}

	alert := NewRegimeAlert(fearTiming(), time.Now())
	require.NoError(t, p.PublishRegimeAlert(context.Background(), alert))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "2024-03-04", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventRegimeAlert, string(msg.Headers[0].Value))

	var decoded RegimeAlert
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, regime.ConditionExtremeFear, decoded.Condition)
	assert.InDelta(t, 55.2, *decoded.CombinedADR, 1e-9)

	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closeCalls)
}

func TestPublishRegimeAlert_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &Producer{writer: &mockWriter{err: boom}}

	err := p.PublishRegimeAlert(context.Background(), NewRegimeAlert(fearTiming(), time.Now()))
	assert.ErrorIs(t, err, boom)
}

func TestNewProducer(t *testing.T) {
	p := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}, AlertTopic: "alerts"})
	defer p.Close()

	assert.Equal(t, "alerts", p.Topic())
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
}
