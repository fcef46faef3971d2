package server

import (
	"sync/atomic"

	"shuttlearena/game"
)

// SessionMetrics 记录会话运行期的关键指标（用于监控与调试）
type SessionMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
	InputsAccepted    int64 // 被接受的输入数
	RateLimited       int64 // 因同帧限流被拒绝的输入数
	OldSeqIgnored     int64 // 因旧序列被忽略的输入数
	NotSeated         int64 // 观战者发来的输入
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	Hits              int64
	Smashes           int64
	Points            int64
	MatchesFinished   int64
	Spectators        int64 // 当前观战人数
}

func (m *SessionMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *SessionMetrics) IncRateLimited()       { atomic.AddInt64(&m.RateLimited, 1) }
func (m *SessionMetrics) IncOldSeqIgnored()     { atomic.AddInt64(&m.OldSeqIgnored, 1) }
func (m *SessionMetrics) IncNotSeated()         { atomic.AddInt64(&m.NotSeated, 1) }
func (m *SessionMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *SessionMetrics) IncMatchesFinished()   { atomic.AddInt64(&m.MatchesFinished, 1) }
func (m *SessionMetrics) AddSpectators(n int64) { atomic.AddInt64(&m.Spectators, n) }
func (m *SessionMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// OnEvent 作为比赛事件接收方统计击球与得分
func (m *SessionMetrics) OnEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventSmashHit:
		atomic.AddInt64(&m.Smashes, 1)
		atomic.AddInt64(&m.Hits, 1)
	case game.EventReceiveHit:
		atomic.AddInt64(&m.Hits, 1)
	case game.EventPointWon, game.EventPointLost:
		atomic.AddInt64(&m.Points, 1)
	}
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *SessionMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"avg_tick_ms":         avgMs,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"rate_limited":        atomic.LoadInt64(&m.RateLimited),
		"old_seq_ignored":     atomic.LoadInt64(&m.OldSeqIgnored),
		"not_seated":          atomic.LoadInt64(&m.NotSeated),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"hits":                atomic.LoadInt64(&m.Hits),
		"smashes":             atomic.LoadInt64(&m.Smashes),
		"points":              atomic.LoadInt64(&m.Points),
		"matches_finished":    atomic.LoadInt64(&m.MatchesFinished),
		"spectators":          atomic.LoadInt64(&m.Spectators),
	}
}
