package game

// PaddlerState 渲染用的球员状态
type PaddlerState struct {
	Side  Side    `json:"side"`
	Human bool    `json:"human"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Swing bool    `json:"swing,omitempty"`
}

// ShuttleState 渲染用的羽毛球状态
type ShuttleState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"r"`
}

// Snapshot 每帧提供给渲染端的只读状态
type Snapshot struct {
	T          float64      `json:"t"`
	Court      Rect         `json:"court"`
	Shuttle    ShuttleState `json:"shuttle"`
	Top        PaddlerState `json:"top"`
	Bottom     PaddlerState `json:"bottom"`
	Score      Score        `json:"score"`
	Server     Side         `json:"server"`
	Phase      Phase        `json:"phase"`
	Timed      bool         `json:"timed,omitempty"`
	TimeLeft   float64      `json:"time_left,omitempty"`
	Scored     bool         `json:"scored"`      // 得分闪烁中
	SinceScore float64      `json:"since_score"` // 距上次得分的时间
	FlashLeft  float64      `json:"flash_left,omitempty"`
	LastPoint  *PointRecord `json:"last_point,omitempty"`
	Winner     Side         `json:"winner,omitempty"`
	Difficulty string       `json:"difficulty"`
	Info       string       `json:"info"`
}

func paddlerState(p *Paddler) PaddlerState {
	return PaddlerState{Side: p.Side, Human: p.Human, X: p.Pos.X, Y: p.Pos.Y, Swing: p.Swing}
}

// Snapshot 生成当前帧快照
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		T:     m.now,
		Court: m.Court.Rect,
		Shuttle: ShuttleState{
			X: m.Shuttle.Pos.X, Y: m.Shuttle.Pos.Y,
			VX: m.Shuttle.Vel.X, VY: m.Shuttle.Vel.Y,
			Radius: m.Shuttle.Radius,
		},
		Top:        paddlerState(m.Top),
		Bottom:     paddlerState(m.Bottom),
		Score:      m.State.Score,
		Server:     m.State.Server,
		Phase:      m.State.Phase,
		Timed:      m.cfg.TimeLimit.Enabled,
		Scored:     m.flashLeft > 0,
		SinceScore: m.sinceScore,
		FlashLeft:  m.flashLeft,
		Winner:     m.winner,
		Difficulty: m.cfg.Difficulty.Name,
		Info:       m.info,
	}
	if s.Timed {
		s.TimeLeft = m.State.TimeLeft
	}
	if lp, ok := m.LastPoint(); ok {
		s.LastPoint = &lp
	}
	return s
}

// FlashLevel 得分闪烁强度 [0,1]：先淡入再淡出
func (s Snapshot) FlashLevel(total float64) float64 {
	if s.FlashLeft <= 0 || total <= 0 {
		return 0
	}
	t := 1 - s.FlashLeft/total
	if t < 0.5 {
		return clamp(t*2, 0, 1)
	}
	return clamp((1-t)*2, 0, 1)
}
