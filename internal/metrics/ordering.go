package metrics

import "time"

const (
	FlushOutcomeSettled = "settled"
	FlushOutcomeFailed  = "failed"
	FlushOutcomeSkipped = "skipped"
)

func (m *Metrics) RecordFlush(outcome string, size int, duration time.Duration) {
	m.safeExecute("RecordFlush", func() {
		m.DeckFlushTotal.WithLabelValues(outcome).Inc()
		m.DeckFlushDuration.Observe(duration.Seconds())
		m.DeckFlushSize.Observe(float64(size))
	})
}

func (m *Metrics) IncrementMoveNoop() {
	m.safeExecute("IncrementMoveNoop", func() {
		m.DeckMoveNoopTotal.Inc()
	})
}

func (m *Metrics) IncrementDeckCreated() {
	m.safeExecute("IncrementDeckCreated", func() {
		m.DeckCreatedTotal.Inc()
	})
}

func (m *Metrics) IncrementDeckDeleted() {
	m.safeExecute("IncrementDeckDeleted", func() {
		m.DeckDeletedTotal.Inc()
	})
}

func (m *Metrics) IncrementOrderRepairs() {
	m.safeExecute("IncrementOrderRepairs", func() {
		m.OrderRepairsTotal.Inc()
	})
}

func (m *Metrics) SetRealtimeSubscribers(count int) {
	m.safeExecute("SetRealtimeSubscribers", func() {
		m.RealtimeSubscribers.Set(float64(count))
	})
}
