package game

import (
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"
)

// MatchState 比分与发球状态，只由 Match 修改
type MatchState struct {
	Score      Score
	Server     Side
	Phase      Phase
	LastHitter Side
	TimeLeft   float64 // 仅在启用限时时有意义
}

// RallyActive 是否处于回合中
func (s MatchState) RallyActive() bool { return s.Phase == PhaseRally }

// PointRecord 最近一次得分
type PointRecord struct {
	Winner Side   `json:"winner"`
	Reason Reason `json:"reason"`
}

// Match 裁判：持有比赛状态并编排羽毛球与双方球员。
// 单线程、同步推进，所有状态变化都发生在 Update 内。
type Match struct {
	cfg     Config
	Court   Court
	Shuttle *Shuttle
	Top     *Paddler
	Bottom  *Paddler
	State   MatchState

	now          float64 // 比赛时钟
	aiServeTimer float64
	flashLeft    float64
	sinceScore   float64
	scored       bool
	lastPoint    PointRecord
	winner       Side
	info         string

	rng  *rand.Rand
	emit Sink
	log  *zap.Logger
}

// Option 比赛构造选项
type Option func(*Match)

// WithSink 设置事件接收方
func WithSink(s Sink) Option { return func(m *Match) { m.emit = s } }

// WithLogger 注入日志（默认 Nop）
func WithLogger(l *zap.Logger) Option { return func(m *Match) { m.log = l } }

// WithRand 替换 AI 使用的随机源（默认由 Config.Seed 生成）
func WithRand(r *rand.Rand) Option { return func(m *Match) { m.rng = r } }

// NewRand 由种子创建随机源；种子为 0 时使用 1
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// NewMatch 校验配置并创建比赛，下半场先发球，进入等待发球
func NewMatch(cfg Config, opts ...Option) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newMatch(cfg, opts...), nil
}

func newMatch(cfg Config, opts ...Option) *Match {
	m := &Match{
		cfg:     cfg,
		Court:   cfg.Court,
		Shuttle: NewShuttle(cfg.Physics.ShuttleRadius, cfg.Court.Center()),
		Top:     NewPaddler(SideTop, cfg.HumanSide == SideTop, cfg.Court),
		Bottom:  NewPaddler(SideBottom, cfg.HumanSide == SideBottom, cfg.Court),
		State:   MatchState{Server: SideBottom},
	}
	for _, o := range opts {
		o(m)
	}
	if m.rng == nil {
		m.rng = NewRand(cfg.Seed)
	}
	if m.emit == nil {
		m.emit = func(Event) {}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.ResetServe()
	return m
}

func (m *Match) Config() Config { return m.cfg }

// Now 比赛时钟（累计 dt，秒）
func (m *Match) Now() float64 { return m.now }

// Paddler 返回指定一侧的球员
func (m *Match) Paddler(side Side) *Paddler {
	if side == SideTop {
		return m.Top
	}
	return m.Bottom
}

// Over 比赛是否已结束
func (m *Match) Over() bool { return m.State.Phase == PhaseMatchOver }

// Winner 比赛结束前为 SideNone
func (m *Match) Winner() Side { return m.winner }

// LastPoint 最近一次得分记录
func (m *Match) LastPoint() (PointRecord, bool) {
	return m.lastPoint, m.lastPoint.Winner != SideNone
}

// homeSide 用于区分"得分/失分"音效：人类一方，双 AI 时取下半场
func (m *Match) homeSide() Side {
	if m.cfg.HumanSide != SideNone {
		return m.cfg.HumanSide
	}
	return SideBottom
}

// Update 推进一帧。等待发球时不运行物理，只在 AI 发球时倒计时。
func (m *Match) Update(dt float64, in Input) {
	if dt < 0 {
		dt = 0
	}
	// 结束后只让得分闪烁自然消退
	m.tickFlash(dt)
	if m.Over() {
		return
	}
	m.now += dt

	if in.ResetServe {
		m.ResetServe()
		return
	}

	if m.State.Phase == PhaseAwaitingServe {
		if in.Serve && m.Serve() {
			return
		}
		if !m.Paddler(m.State.Server).Human {
			m.aiServeTimer -= dt
			if m.aiServeTimer <= 0 {
				m.startRally()
			}
		}
		return
	}

	m.Shuttle.Integrate(dt, m.cfg.Physics)
	m.movePaddlers(dt, in)

	// 先处理当前持球半场的一方
	first, second := m.Bottom, m.Top
	if m.Court.SideOf(m.Shuttle.Pos.Y) == SideTop {
		first, second = m.Top, m.Bottom
	}
	// 每帧至多一次击球：推出后的球不会被对手在同一帧回击
	if !m.TryHit(first, second) {
		m.TryHit(second, first)
	}

	if m.checkBounds() {
		return
	}

	if m.cfg.TimeLimit.Enabled {
		m.State.TimeLeft -= dt
		if m.State.TimeLeft <= 0 {
			m.State.TimeLeft = 0
			holder := m.Court.SideOf(m.Shuttle.Pos.Y)
			m.AwardPoint(holder.Opponent(), ReasonTimeUp)
		}
	}
}

func (m *Match) tickFlash(dt float64) {
	if m.scored {
		m.sinceScore += dt
	}
	if m.flashLeft > 0 {
		m.flashLeft -= dt
		if m.flashLeft < 0 {
			m.flashLeft = 0
		}
	}
}

func (m *Match) movePaddlers(dt float64, in Input) {
	for _, p := range []*Paddler{m.Bottom, m.Top} {
		if p.Human {
			p.Swing = in.Smash
			p.MoveHuman(dt, in, m.Court, m.cfg.Player)
			continue
		}
		p.MoveAI(dt, m.Shuttle, m.cfg.Difficulty, m.Court, m.cfg.Player, m.rng)
	}
}

// Serve 人类发球者的显式发球；条件不满足时返回 false
func (m *Match) Serve() bool {
	if m.State.Phase != PhaseAwaitingServe || !m.Paddler(m.State.Server).Human {
		return false
	}
	m.startRally()
	return true
}

func (m *Match) startRally() {
	m.State.Phase = PhaseRally
	sp := m.cfg.Physics.BaseHitSpeed + m.cfg.Physics.ServeBonus
	if m.State.Server == SideBottom {
		sp = -sp
	}
	m.Shuttle.Vel = Vec2{0, sp}
	m.State.LastHitter = m.State.Server
	m.info = "Rally in progress"
	m.log.Debug("rally start", zap.Stringer("server", m.State.Server), zap.Float64("t", m.now))
}

// ResetServe 回到等待发球：摆位、清空上次击球者与击球冷却，重置回合计时
func (m *Match) ResetServe() {
	if m.Over() {
		return
	}
	m.State.Phase = PhaseAwaitingServe
	m.placeForServe()

	m.State.LastHitter = SideNone
	for _, p := range []*Paddler{m.Top, m.Bottom} {
		p.Swing = false
		p.LastHit = neverHit
	}
	if m.cfg.TimeLimit.Enabled {
		m.State.TimeLeft = m.cfg.TimeLimit.Seconds
	}

	server := strings.ToUpper(m.State.Server.String())
	if m.Paddler(m.State.Server).Human {
		m.aiServeTimer = 0
		m.info = fmt.Sprintf("Wait for serve: %s — Enter", server)
	} else {
		m.aiServeTimer = m.cfg.AIServeDelay
		m.info = fmt.Sprintf("Wait for serve: %s — AI soon", server)
	}
}

// placeForServe 发球者站发球区，接发球者站对角区；
// 羽毛球放在发球者靠网一侧 ServeOffset 处，避免与静止的球拍重叠。
func (m *Match) placeForServe() {
	server := m.State.Server
	sv := m.Court.ServeSpot(server, m.State.Score)
	rv := m.Court.ReceiveSpot(server, m.State.Score)
	m.Paddler(server).Pos = sv
	m.Paddler(server.Opponent()).Pos = rv

	off := m.cfg.ServeOffset
	if server == SideBottom {
		off = -off
	}
	m.Shuttle.Reset(Vec2{sv.X, sv.Y + off})
}

// checkBounds 界外判定，按固定优先级每帧至多触发一次：
// 左右出界 -> 上次击球者的对手得分；上下出界 -> 上次击球者得分；压边线 -> 同左右出界
func (m *Match) checkBounds() bool {
	x, y := m.Shuttle.Pos.X, m.Shuttle.Pos.Y
	c := m.Court
	hitter := m.State.LastHitter
	if hitter == SideNone {
		hitter = m.State.Server
	}
	band := m.cfg.Physics.LineBand

	switch {
	case x < c.Left || x > c.Right():
		m.AwardPoint(hitter.Opponent(), ReasonSideOut)
	case y < c.Top || y > c.Bottom():
		m.AwardPoint(hitter, ReasonBaselineOut)
	case x <= c.Left+band || x >= c.Right()-band:
		m.AwardPoint(hitter.Opponent(), ReasonSideLine)
	default:
		return false
	}
	return true
}

// AwardPoint 记分、换发球权、检查比赛结束，否则重新摆位发球。
// 比赛结束后调用无任何效果。
func (m *Match) AwardPoint(winner Side, reason Reason) {
	if m.Over() || winner == SideNone {
		return
	}
	m.State.Score.add(winner)
	m.State.Server = winner
	m.lastPoint = PointRecord{Winner: winner, Reason: reason}
	m.scored = true
	m.sinceScore = 0
	m.flashLeft = m.cfg.ScoreFlash

	kind := EventPointLost
	if winner == m.homeSide() {
		kind = EventPointWon
	}
	m.emit(Event{T: m.now, Kind: kind, Side: winner, Human: m.Paddler(winner).Human, Reason: reason})
	m.log.Debug("point",
		zap.Stringer("winner", winner),
		zap.String("reason", string(reason)),
		zap.Int("top", m.State.Score.Top),
		zap.Int("bottom", m.State.Score.Bottom))

	if m.isGameOver() {
		m.State.Phase = PhaseMatchOver
		m.winner = SideBottom
		if m.State.Score.Top > m.State.Score.Bottom {
			m.winner = SideTop
		}
		m.Shuttle.Vel = Vec2{}
		m.info = fmt.Sprintf("Game over: %s wins", strings.ToUpper(m.winner.String()))
		m.log.Info("match over",
			zap.Stringer("winner", m.winner),
			zap.String("reason", string(reason)),
			zap.String("score", m.State.Score.String()))
		return
	}
	m.ResetServe()
}

// isGameOver 达到目标分；启用两分规则时还需领先至少 2 分
func (m *Match) isGameOver() bool {
	t, b := m.State.Score.Top, m.State.Score.Bottom
	lead := t - b
	if lead < 0 {
		lead = -lead
	}
	mx := max(t, b)
	if mx < m.cfg.TargetScore {
		return false
	}
	return !m.cfg.TwoPointRule || lead >= 2
}
