package game

import (
	"errors"
	"testing"
)

const frame = 1.0 / 60

func TestNewMatchPlacesForServe(t *testing.T) {
	m, _ := newTestMatch(t, nil)
	c := m.Court

	if m.State.Phase != PhaseAwaitingServe || m.State.Server != SideBottom {
		t.Fatalf("expected bottom awaiting serve, got %+v", m.State)
	}
	if m.Bottom.Pos != c.ServeSpot(SideBottom, Score{}) || m.Bottom.Pos.X != 530 {
		t.Errorf("server not on the even (right) box: %v", m.Bottom.Pos)
	}
	if m.Top.Pos != c.ReceiveSpot(SideBottom, Score{}) || m.Top.Pos.X != 270 {
		t.Errorf("receiver not on the diagonal box: %v", m.Top.Pos)
	}
	if want := (Vec2{530, 645 - 36}); m.Shuttle.Pos != want || m.Shuttle.Speed() != 0 {
		t.Errorf("expected resting shuttle at %v, got %v vel %v", want, m.Shuttle.Pos, m.Shuttle.Vel)
	}
	if m.State.LastHitter != SideNone {
		t.Errorf("last hitter should be cleared at serve, got %v", m.State.LastHitter)
	}
}

func TestNewMatchRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetScore = -1
	if _, err := NewMatch(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestHumanServerWaitsForTrigger(t *testing.T) {
	m, _ := newTestMatch(t, nil)
	start := m.Bottom.Pos

	for i := 0; i < 300; i++ {
		m.Update(frame, Input{Left: true, Smash: true})
		if m.Shuttle.Vel != (Vec2{}) {
			t.Fatalf("frame %d: shuttle moved before serve: %v", i, m.Shuttle.Vel)
		}
	}
	if m.State.Phase != PhaseAwaitingServe || m.Bottom.Pos != start {
		t.Fatalf("nothing should run while awaiting a human serve: %+v", m.State)
	}

	m.Update(frame, Input{Serve: true})
	if m.State.Phase != PhaseRally {
		t.Fatalf("serve trigger did not start the rally")
	}
	if m.Shuttle.Vel != (Vec2{0, -500}) || m.State.LastHitter != SideBottom {
		t.Errorf("expected serve velocity (0,-500) by bottom, got %v lastHitter=%v", m.Shuttle.Vel, m.State.LastHitter)
	}
	if m.Serve() {
		t.Error("serve must be rejected while the rally is active")
	}
}

func TestAIServesAfterDelay(t *testing.T) {
	m, _ := newTestMatch(t, func(c *Config) { c.HumanSide = SideTop })

	if m.Serve() {
		t.Fatal("explicit serve must be ignored when the server is AI")
	}
	for i := 0; i < 30; i++ {
		m.Update(frame, Input{Serve: true})
	}
	if m.State.Phase != PhaseAwaitingServe {
		t.Fatalf("AI served before the 0.6s delay")
	}
	for i := 0; i < 10 && m.State.Phase == PhaseAwaitingServe; i++ {
		m.Update(frame, Input{})
	}
	if m.State.Phase != PhaseRally || m.Shuttle.Vel.Y != -500 {
		t.Errorf("AI should have served toward top: phase=%v vel=%v", m.State.Phase, m.Shuttle.Vel)
	}
}

func TestTopAIServeGoesDown(t *testing.T) {
	m, _ := newTestMatch(t, nil)
	m.AwardPoint(SideTop, ReasonSideOut)
	if m.State.Server != SideTop || m.Shuttle.Pos.Y != m.Top.Pos.Y+36 {
		t.Fatalf("top should serve from above the net: %+v shuttle=%v top=%v", m.State, m.Shuttle.Pos, m.Top.Pos)
	}
	for i := 0; i < 40; i++ {
		m.Update(frame, Input{})
	}
	if m.State.Phase != PhaseRally || m.Shuttle.Vel.Y <= 0 || m.State.LastHitter != SideTop {
		t.Errorf("expected a downward AI serve, got phase=%v vel=%v", m.State.Phase, m.Shuttle.Vel)
	}
}

func TestScenarioAFirstToTarget(t *testing.T) {
	m, _ := newTestMatch(t, func(c *Config) { c.TargetScore = 21; c.TwoPointRule = false })
	for i := 0; i < 21; i++ {
		if m.Over() {
			t.Fatalf("match ended early after %d points", i)
		}
		m.AwardPoint(SideBottom, ReasonBaselineOut)
	}
	if !m.Over() || m.Winner() != SideBottom {
		t.Fatalf("expected bottom to win, over=%v winner=%v", m.Over(), m.Winner())
	}
	if m.State.Score != (Score{Top: 0, Bottom: 21}) {
		t.Errorf("unexpected final score %v", m.State.Score)
	}
}

func TestScenarioBTwoPointRule(t *testing.T) {
	m, _ := newTestMatch(t, func(c *Config) { c.TargetScore = 21; c.TwoPointRule = true })
	for i := 0; i < 20; i++ {
		m.AwardPoint(SideTop, ReasonSideOut)
		m.AwardPoint(SideBottom, ReasonSideOut)
	}
	m.AwardPoint(SideTop, ReasonSideOut)
	if m.Over() {
		t.Fatalf("21-20 must continue under the two-point rule")
	}
	m.AwardPoint(SideTop, ReasonSideOut)
	if !m.Over() || m.Winner() != SideTop || m.State.Score != (Score{Top: 22, Bottom: 20}) {
		t.Errorf("expected top to win 22-20, got over=%v winner=%v score=%v", m.Over(), m.Winner(), m.State.Score)
	}
}

func TestAwardPointIdempotentAfterMatchOver(t *testing.T) {
	m, rec := newTestMatch(t, func(c *Config) { c.TargetScore = 1 })
	m.AwardPoint(SideTop, ReasonSideLine)
	if !m.Over() {
		t.Fatal("expected match over at target 1")
	}
	final := m.State
	n := len(rec.events)

	m.AwardPoint(SideBottom, ReasonSideOut)
	m.AwardPoint(SideTop, ReasonSideOut)
	m.ResetServe()
	m.Update(frame, Input{Serve: true})
	if m.State != final || len(rec.events) != n {
		t.Errorf("state changed after match over: %+v -> %+v", final, m.State)
	}
}

func TestScenarioCSideOut(t *testing.T) {
	m, rec := newTestMatch(t, nil)
	m.State.Phase = PhaseRally
	m.State.LastHitter = SideTop
	m.Shuttle.Pos = Vec2{m.Court.Left - 1, 300}

	m.Update(frame, Input{})

	lp, ok := m.LastPoint()
	if !ok || lp.Winner != SideBottom || lp.Reason != ReasonSideOut {
		t.Fatalf("expected side out to bottom, got %+v", lp)
	}
	if m.State.Server != SideBottom || m.State.Score != (Score{Bottom: 1}) {
		t.Errorf("unexpected state after side out: %+v", m.State)
	}
	if got := rec.kinds(); len(got) != 1 || got[0] != EventPointWon {
		t.Errorf("human side scoring should emit point-won, got %v", got)
	}
}

func TestScenarioDBaselineOut(t *testing.T) {
	m, rec := newTestMatch(t, nil)
	m.State.Phase = PhaseRally
	m.State.LastHitter = SideBottom
	m.Shuttle.Pos = Vec2{400, m.Court.Bottom() + 1}

	m.Update(frame, Input{})

	lp, _ := m.LastPoint()
	if lp.Winner != SideBottom || lp.Reason != ReasonBaselineOut {
		t.Errorf("expected baseline out to the last hitter, got %+v", lp)
	}
	if len(rec.events) != 1 {
		t.Errorf("expected exactly one point event, got %v", rec.kinds())
	}
}

func TestLineCalls(t *testing.T) {
	cases := []struct {
		name       string
		pos        func(c Court) Vec2
		lastHitter Side
		winner     Side
		reason     Reason
	}{
		{"right side out", func(c Court) Vec2 { return Vec2{c.Right() + 2, 700} }, SideBottom, SideTop, ReasonSideOut},
		{"top baseline", func(c Court) Vec2 { return Vec2{400, c.Top - 1} }, SideBottom, SideBottom, ReasonBaselineOut},
		{"left line band", func(c Court) Vec2 { return Vec2{c.Left + 3, 300} }, SideBottom, SideTop, ReasonSideLine},
		{"right line band", func(c Court) Vec2 { return Vec2{c.Right() - 6, 700} }, SideTop, SideBottom, ReasonSideLine},
		{"side beats baseline", func(c Court) Vec2 { return Vec2{c.Left - 1, c.Top - 1} }, SideTop, SideBottom, ReasonSideOut},
		{"no hitter falls back to server", func(c Court) Vec2 { return Vec2{c.Left - 5, 700} }, SideNone, SideTop, ReasonSideOut},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestMatch(t, nil)
			m.State.Phase = PhaseRally
			m.State.LastHitter = tc.lastHitter
			m.Shuttle.Pos = tc.pos(m.Court)

			m.Update(frame, Input{})

			lp, _ := m.LastPoint()
			if lp.Winner != tc.winner || lp.Reason != tc.reason {
				t.Errorf("expected %v/%q, got %v/%q", tc.winner, tc.reason, lp.Winner, lp.Reason)
			}
			if total := m.State.Score.Top + m.State.Score.Bottom; total != 1 {
				t.Errorf("exactly one point per tick, got %d", total)
			}
		})
	}
}

func TestBaselineIsInUntilCrossed(t *testing.T) {
	m, rec := newTestMatch(t, nil)
	m.State.Phase = PhaseRally
	m.State.LastHitter = SideTop
	m.Shuttle.Pos = Vec2{400, m.Court.Bottom()}

	m.Update(frame, Input{})
	if len(rec.events) != 0 || m.State.Phase != PhaseRally {
		t.Errorf("shuttle on the baseline is still in, got %v", rec.kinds())
	}
}

func TestPointResetsServeWithParity(t *testing.T) {
	m, _ := newTestMatch(t, nil)
	m.Update(frame, Input{Serve: true})
	m.AwardPoint(SideBottom, ReasonBaselineOut)

	if m.State.Phase != PhaseAwaitingServe || m.Shuttle.Speed() != 0 {
		t.Fatalf("expected a fresh serve, got %+v", m.State)
	}
	if m.Bottom.Pos.X != 270 {
		t.Errorf("odd score should serve from the left box (x=270), got %v", m.Bottom.Pos.X)
	}
	if m.Top.Pos.X != 530 {
		t.Errorf("receiver should mirror to x=530, got %v", m.Top.Pos.X)
	}
}

func TestPointEventsRelativeToHuman(t *testing.T) {
	m, rec := newTestMatch(t, nil)
	m.AwardPoint(SideTop, ReasonSideOut)
	m.AwardPoint(SideBottom, ReasonSideOut)
	got := rec.kinds()
	if len(got) != 2 || got[0] != EventPointLost || got[1] != EventPointWon {
		t.Errorf("expected [point-lost point-won], got %v", got)
	}
	if rec.events[0].Human || !rec.events[1].Human {
		t.Errorf("human flag should follow the scoring side: %+v", rec.events)
	}
}

func TestTimeLimitAwardsNonHolder(t *testing.T) {
	m, _ := newTestMatch(t, func(c *Config) { c.TimeLimit = TimeLimit{Enabled: true, Seconds: 1} })
	if m.State.TimeLeft != 1 {
		t.Fatalf("timer not armed at serve: %v", m.State.TimeLeft)
	}
	m.Update(frame, Input{Serve: true})
	// 球停在上半场，上方 AI 只能横向移动，够不到
	m.Shuttle.Pos = Vec2{400, 320}
	m.Shuttle.Vel = Vec2{}

	for i := 0; i < 50; i++ {
		m.Update(frame, Input{})
	}
	if _, ok := m.LastPoint(); ok {
		t.Fatalf("point awarded before the clock ran out")
	}
	for i := 0; i < 20; i++ {
		m.Update(frame, Input{})
	}
	lp, ok := m.LastPoint()
	if !ok || lp.Winner != SideBottom || lp.Reason != ReasonTimeUp {
		t.Fatalf("expected time-up point to bottom, got %+v", lp)
	}
	if m.State.TimeLeft != 1 || m.State.Phase != PhaseAwaitingServe {
		t.Errorf("timer should re-arm at the next serve, got %v", m.State.TimeLeft)
	}
}

func TestResetServeInputKeepsScore(t *testing.T) {
	m, _ := newTestMatch(t, nil)
	m.AwardPoint(SideBottom, ReasonSideOut)
	m.Update(frame, Input{Serve: true})
	for i := 0; i < 10; i++ {
		m.Update(frame, Input{})
	}
	m.Update(frame, Input{ResetServe: true})

	if m.State.Phase != PhaseAwaitingServe || m.State.Score != (Score{Bottom: 1}) {
		t.Fatalf("reset serve should keep the score: %+v", m.State)
	}
	if m.Shuttle.Pos != (Vec2{270, 645 - 36}) || m.Shuttle.Speed() != 0 {
		t.Errorf("shuttle not re-placed: %v %v", m.Shuttle.Pos, m.Shuttle.Vel)
	}
}

func TestScoreFlash(t *testing.T) {
	m, _ := newTestMatch(t, nil)
	if m.Snapshot().Scored {
		t.Fatal("no flash before the first point")
	}
	m.AwardPoint(SideTop, ReasonSideOut)
	snap := m.Snapshot()
	if !snap.Scored || snap.LastPoint == nil || snap.LastPoint.Winner != SideTop {
		t.Fatalf("expected flash after point: %+v", snap)
	}
	for i := 0; i < 30; i++ {
		m.Update(frame, Input{})
	}
	snap = m.Snapshot()
	if snap.Scored {
		t.Errorf("flash should expire after %.2fs", m.cfg.ScoreFlash)
	}
	if snap.SinceScore < 0.49 || snap.SinceScore > 0.51 {
		t.Errorf("expected ~0.5s since score, got %v", snap.SinceScore)
	}
}

func TestAttractModeRunsToCompletion(t *testing.T) {
	m, rec := newTestMatch(t, func(c *Config) {
		c.HumanSide = SideNone
		c.TargetScore = 3
		c.TimeLimit = TimeLimit{Enabled: true, Seconds: 8}
		c.Difficulty = Difficulties["hard"]
		c.Seed = 99
	})
	for i := 0; i < 60*120 && !m.Over(); i++ {
		m.Update(frame, Input{Serve: true})

		for _, p := range []*Paddler{m.Top, m.Bottom} {
			if !m.Court.AllowedRect(p.Side, m.cfg.Player.Padding).Contains(p.Pos) {
				t.Fatalf("frame %d: %v paddler left its half: %v", i, p.Side, p.Pos)
			}
		}
		if s := m.State.Server; s != SideTop && s != SideBottom {
			t.Fatalf("frame %d: invalid server %v", i, s)
		}
	}
	if !m.Over() {
		t.Fatalf("AI match did not finish, score %v", m.State.Score)
	}
	points := 0
	for _, ev := range rec.events {
		if ev.Kind == EventPointWon || ev.Kind == EventPointLost {
			points++
		}
	}
	if points != m.State.Score.Top+m.State.Score.Bottom {
		t.Errorf("point events %d do not match score %v", points, m.State.Score)
	}
}

// 双方都够得着时，只有持球半场的一方击球，推出后对手本帧不能回击
func TestHitOrderOwnerFirstOncePerTick(t *testing.T) {
	cases := []struct {
		name      string
		shuttleY  float64
		prev      Side
		wantOwner Side
	}{
		{"top half", 445, SideBottom, SideTop},
		{"bottom half", 455, SideTop, SideBottom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, rec := newTestMatch(t, nil)
			m.State.Phase = PhaseRally
			m.State.LastHitter = tc.prev
			m.now = 1
			// 双方都贴网站位，网两侧相距 64
			m.Top.Pos = Vec2{400, 418}
			m.Bottom.Pos = Vec2{400, 482}
			m.Shuttle.Pos = Vec2{400, tc.shuttleY}
			m.Shuttle.Vel = Vec2{}
			reach := m.Top.Reach(m.Shuttle, m.cfg.Player)
			if m.Shuttle.Pos.Sub(m.Top.Pos).Len() > reach || m.Shuttle.Pos.Sub(m.Bottom.Pos).Len() > reach {
				t.Fatal("fixture: both paddlers should be in reach")
			}

			m.Update(frame, Input{})

			if len(rec.events) != 1 {
				t.Fatalf("expected exactly one hit, got %v", rec.kinds())
			}
			if rec.events[0].Side != tc.wantOwner || m.State.LastHitter != tc.wantOwner {
				t.Errorf("expected %v to hit, event side=%v lastHitter=%v", tc.wantOwner, rec.events[0].Side, m.State.LastHitter)
			}
			if tc.wantOwner == SideTop && m.Shuttle.Vel.Y <= 0 || tc.wantOwner == SideBottom && m.Shuttle.Vel.Y >= 0 {
				t.Errorf("shot should head to the far half, vel=%v", m.Shuttle.Vel)
			}
			// 推出后的球已进入对手半场并在其拍面范围内，仍不得在同一帧回击
			opp := m.Paddler(tc.wantOwner.Opponent())
			if m.Court.SideOf(m.Shuttle.Pos.Y) != opp.Side || m.Shuttle.Pos.Sub(opp.Pos).Len() > reach {
				t.Fatalf("fixture: nudged shuttle should sit in the opponent's reach, pos=%v", m.Shuttle.Pos)
			}
			if opp.LastHit != neverHit {
				t.Errorf("opponent re-hit on the same tick")
			}
		})
	}
}

func TestScoreFlashDecaysAfterMatchOver(t *testing.T) {
	m, _ := newTestMatch(t, func(c *Config) { c.TargetScore = 1 })
	m.AwardPoint(SideBottom, ReasonBaselineOut)
	if !m.Over() || !m.Snapshot().Scored {
		t.Fatal("winning point should start the flash")
	}
	final := m.State
	for i := 0; i < 30; i++ {
		m.Update(frame, Input{})
	}
	if m.Snapshot().Scored {
		t.Errorf("flash should expire after the match ends")
	}
	if m.State != final {
		t.Errorf("state changed after match over: %+v -> %+v", final, m.State)
	}
}
