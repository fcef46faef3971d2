package server

import (
	"errors"
	"sync"
	"sync/atomic"

	"shuttlearena/game"
)

const (
	// 同一 Tick 内单个连接最多处理的输入条数，超出计入限流
	defaultMaxInputsPerTick = 8
	// 无人类玩家时比赛结束后自动重开的等待时间（秒）
	attractRestartDelay = 3.0
)

// ErrSessionBusy 重开请求队列已满
var ErrSessionBusy = errors.New("session busy")

// Frame 出站消息
type Frame struct {
	Type     string         `json:"type"` // welcome / state
	Session  string         `json:"session,omitempty"`
	Role     Role           `json:"role,omitempty"`
	Tick     int64          `json:"tick"`
	Scene    game.SceneKind `json:"scene"`
	Seated   bool           `json:"seated"` // 人类席位是否有人
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Events   []game.Event   `json:"events,omitempty"`
	Result   *game.Result   `json:"result,omitempty"`
	Lines    []string       `json:"lines,omitempty"` // 菜单 / 说明文字
}

type joinRequest struct {
	id   ClientID
	role Role
	conn *ClientConn
}

// Session 一块球场：权威状态维护在内存，单线程 Tick 推进。
// 第一个 player 连接占据人类席位，其余为观战；席位空出时双方都由 AI 控制。
type Session struct {
	ID string

	clients     map[ClientID]*Client
	human       ClientID
	joinChan    chan joinRequest
	inputChan   chan PlayerInput
	leaveChan   chan ClientID
	restartChan chan game.Config

	mu       sync.RWMutex // 保护 cfg，供 admin 读取
	cfg      game.Config  // HumanSide 为席位有人时使用的一侧
	director *game.Director

	held             game.Input // 人类玩家最近一次上报的按住状态
	perClient        map[ClientID]int
	maxInputsPerTick int
	overFor          float64
	events           []game.Event

	tickSeq       atomic.Int64
	metrics       *SessionMetrics
	tickerStarted bool
}

// NewSession 创建会话；cfg 需已通过校验
func NewSession(id string, cfg game.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		ID:               id,
		clients:          make(map[ClientID]*Client),
		joinChan:         make(chan joinRequest, 64),
		inputChan:        make(chan PlayerInput, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		leaveChan:        make(chan ClientID, 64),
		restartChan:      make(chan game.Config, 4),
		cfg:              cfg,
		perClient:        make(map[ClientID]int),
		maxInputsPerTick: defaultMaxInputsPerTick,
		metrics:          &SessionMetrics{},
	}
	s.reseat()
	return s, nil
}

// Config 当前比赛配置（只读副本）
func (s *Session) Config() game.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Session) Metrics() *SessionMetrics { return s.metrics }

// TickSeq 已推进的 Tick 数
func (s *Session) TickSeq() int64 { return s.tickSeq.Load() }

// Join 请求在 Tick 线程中加入连接
func (s *Session) Join(id ClientID, role Role, conn *ClientConn) {
	s.joinChan <- joinRequest{id: id, role: role, conn: conn}
}

// RequestLeave 请求在 Tick 线程中移除连接，避免并发改动会话状态
func (s *Session) RequestLeave(id ClientID) {
	// 为保证移除一定生效，这里采用阻塞式写入（通道有容量，避免死锁）
	s.leaveChan <- id
}

// OnInput 入站输入（不立即生效），等下一次 Tick 处理
func (s *Session) OnInput(in PlayerInput) {
	select {
	case s.inputChan <- in:
	default:
		// 丢弃：为了实时性，避免背压影响比赛推进
		s.metrics.IncChanFullDiscarded()
	}
}

// Restart 以新配置重开比赛（下一次 Tick 生效）
func (s *Session) Restart(cfg game.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	select {
	case s.restartChan <- cfg:
		return nil
	default:
		return ErrSessionBusy
	}
}

// Tick 核心循环：处理输入 → 更新比赛 → 广播结果
func (s *Session) Tick(dt float64) {
	s.BeginTick()
	in := s.ProcessInputs()
	s.UpdateWorld(dt, in)
	s.Broadcast()
}

// BeginTick 重置帧内状态
func (s *Session) BeginTick() {
	s.tickSeq.Add(1)
	clear(s.perClient)
	s.events = s.events[:0]
}

// ProcessInputs 处理当前帧的所有入站请求（非阻塞 drain），返回合并后的人类输入
func (s *Session) ProcessInputs() game.Input {
	edges := game.Input{}
	for {
		select {
		case j := <-s.joinChan:
			s.addClient(j)
		case id := <-s.leaveChan:
			s.removeClient(id)
		case cfg := <-s.restartChan:
			s.mu.Lock()
			s.cfg = cfg
			s.mu.Unlock()
			s.reseat()
			Log.Infof("session restarted: session=%s difficulty=%s seed=%d target=%d",
				s.ID, cfg.Difficulty.Name, cfg.Seed, cfg.TargetScore)
		case in := <-s.inputChan:
			if s.accept(in) {
				if !in.CommandOnly {
					s.held = in.Input.Held()
				}
				edges = edges.Merge(in.Input)
			}
		default:
			return edges.Merge(s.held)
		}
	}
}

// accept 席位、序列号与同帧限流检查
func (s *Session) accept(in PlayerInput) bool {
	c, ok := s.clients[in.ClientID]
	if !ok {
		return false
	}
	if in.ClientID != s.human {
		s.metrics.IncNotSeated()
		return false
	}
	if in.Seq != 0 {
		if in.Seq <= c.LastSeq {
			s.metrics.IncOldSeqIgnored()
			return false
		}
		c.LastSeq = in.Seq
	}
	if s.perClient[in.ClientID] >= s.maxInputsPerTick {
		s.metrics.IncRateLimited()
		return false
	}
	s.perClient[in.ClientID]++
	s.metrics.IncAccepted()
	return true
}

// UpdateWorld 推进场景一帧
func (s *Session) UpdateWorld(dt float64, in game.Input) {
	if s.human == "" && s.director.Scene() == game.SceneGameOver {
		s.overFor += dt
		if s.overFor >= attractRestartDelay {
			in.Command = game.CmdConfirm
		}
	}
	if s.director.Scene() != game.SceneGameOver {
		s.overFor = 0
	}

	switch s.director.Step(dt, in) {
	case game.TransToGameOver:
		s.metrics.IncMatchesFinished()
		Log.Infof("match over: session=%s %s", s.ID, s.director.Result())
	case game.TransToGame:
		s.overFor = 0
	}
}

// Broadcast 将当前状态广播给所有连接，每种编码只序列化一次
func (s *Session) Broadcast() {
	if len(s.clients) == 0 {
		return
	}
	f := s.stateFrame()
	encoded := make(map[Codec][]byte, 2)
	for _, c := range s.clients {
		if c.Conn == nil {
			continue
		}
		b, ok := encoded[c.Conn.codec]
		if !ok {
			var err error
			b, err = c.Conn.codec.Marshal(f)
			if err != nil {
				Log.Errorf("encode frame: codec=%s err=%v", c.Conn.codec.Name(), err)
				continue
			}
			encoded[c.Conn.codec] = b
		}
		c.Conn.Enqueue(b)
	}
}

func (s *Session) stateFrame() Frame {
	f := Frame{
		Type:   "state",
		Tick:   s.tickSeq.Load(),
		Scene:  s.director.Scene(),
		Seated: s.human != "",
		Events: s.events,
	}
	switch f.Scene {
	case game.SceneMenu:
		f.Lines = game.MenuLines(s.director.Config())
	case game.SceneHowTo:
		f.Lines = game.HelpLines
	case game.SceneGameOver:
		r := s.director.Result()
		f.Result = &r
	}
	if m := s.director.Match(); m != nil {
		snap := m.Snapshot()
		f.Snapshot = &snap
	}
	return f
}

func (s *Session) addClient(j joinRequest) {
	c := &Client{ID: j.id, Role: RoleSpectator, Conn: j.conn}
	if old, ok := s.clients[j.id]; ok {
		s.removeClient(old.ID)
	}
	if j.role == RolePlayer && s.human == "" {
		c.Role = RolePlayer
		s.human = j.id
		s.held = game.Input{}
		s.reseat()
	} else {
		s.metrics.AddSpectators(1)
	}
	s.clients[j.id] = c

	if c.Conn != nil {
		welcome := Frame{Type: "welcome", Session: s.ID, Role: c.Role, Tick: s.tickSeq.Load(), Scene: s.director.Scene()}
		if b, err := c.Conn.codec.Marshal(welcome); err == nil {
			c.Conn.Enqueue(b)
		}
	}
}

// removeClient 将连接移出会话；人类玩家离开后转为双 AI 对战
func (s *Session) removeClient(id ClientID) {
	c, ok := s.clients[id]
	if !ok {
		return
	}
	if c.Conn != nil {
		c.Conn.Close()
	}
	delete(s.clients, id)
	if id == s.human {
		s.human = ""
		s.held = game.Input{}
		s.reseat()
		Log.Infof("seat released: session=%s client=%s", s.ID, id)
		return
	}
	s.metrics.AddSpectators(-1)
}

// reseat 按席位状态重建比赛：有人类时用配置的一侧，否则双方都是 AI
func (s *Session) reseat() {
	cfg := s.Config()
	if s.human == "" {
		cfg.HumanSide = game.SideNone
	}
	d, err := game.NewDirector(cfg, game.SceneGame,
		game.WithSink(game.Fanout(s.metrics.OnEvent, s.collect)),
		game.WithLogger(Log.Desugar().Named(s.ID)))
	if err != nil {
		// cfg 在进入会话前已校验
		Log.Errorf("reseat: session=%s err=%v", s.ID, err)
		return
	}
	s.director = d
	s.overFor = 0
}

func (s *Session) collect(ev game.Event) { s.events = append(s.events, ev) }
