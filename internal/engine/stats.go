package engine

import "sync/atomic"

// Stats holds the engine's connection counters as independent atomics so
// GetStats never blocks behind the transmit lock or the receive loop.
type Stats struct {
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	parseErrors      atomic.Uint64
	crcErrors        atomic.Uint64
	sequenceGaps     atomic.Uint64
}

func (s *Stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		MessagesReceived: s.messagesReceived.Load(),
		MessagesSent:     s.messagesSent.Load(),
		ParseErrors:      s.parseErrors.Load(),
		CRCErrors:        s.crcErrors.Load(),
		SequenceGaps:     s.sequenceGaps.Load(),
	}
}

// StatsSnapshot is a point-in-time copy of an Engine's counters.
type StatsSnapshot struct {
	MessagesReceived uint64
	MessagesSent     uint64
	ParseErrors      uint64
	CRCErrors        uint64
	SequenceGaps     uint64
}
