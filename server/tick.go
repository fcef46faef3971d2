package server

import (
	"context"
	"time"
)

const (
	// TicksPerSecond 比赛推进频率（60 TPS，与帧步进的摩擦系数匹配）
	TicksPerSecond = 60
)

var (
	tickInterval = time.Second / TicksPerSecond
	tickDT       = 1.0 / TicksPerSecond
)

// StartTicker 启动会话的 Tick 循环（单线程推进比赛），ctx 取消后退出
func (s *Session) StartTicker(ctx context.Context) {
	if s.tickerStarted {
		return
	}
	s.tickerStarted = true
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				Log.Infof("session ticker stopped: session=%s ticks=%d", s.ID, s.TickSeq())
				return
			case <-ticker.C:
				start := time.Now()
				s.Tick(tickDT)
				s.metrics.AddTick(time.Since(start).Nanoseconds())
			}
		}
	}()
}
