package game

import "fmt"

// Side 球场的一侧（上半场 / 下半场）
type Side int8

const (
	SideNone Side = iota
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Opponent 对方半场；SideNone 的对方仍是 SideNone
func (s Side) Opponent() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	default:
		return SideNone
	}
}

// ParseSide 解析 "top" / "bottom" / "none"（空串视为 none）
func ParseSide(v string) (Side, error) {
	switch v {
	case "top":
		return SideTop, nil
	case "bottom":
		return SideBottom, nil
	case "", "none":
		return SideNone, nil
	}
	return SideNone, fmt.Errorf("unknown side %q", v)
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Score 比分
type Score struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Of 返回指定一侧的得分
func (s Score) Of(side Side) int {
	if side == SideTop {
		return s.Top
	}
	return s.Bottom
}

func (s *Score) add(side Side) {
	switch side {
	case SideTop:
		s.Top++
	case SideBottom:
		s.Bottom++
	}
}

func (s Score) String() string { return fmt.Sprintf("%d : %d", s.Top, s.Bottom) }

// Phase 发球/回合状态机的阶段
type Phase int8

const (
	PhaseAwaitingServe Phase = iota
	PhaseRally
	PhaseMatchOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingServe:
		return "awaiting_serve"
	case PhaseRally:
		return "rally"
	case PhaseMatchOver:
		return "match_over"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Reason 得分原因（界外判定）
type Reason string

const (
	ReasonSideOut     Reason = "Side out"
	ReasonBaselineOut Reason = "Baseline out"
	ReasonSideLine    Reason = "Side line"
	ReasonTimeUp      Reason = "Time up"
)

// Box 发球区：按分数奇偶选择左右
type Box int8

const (
	BoxRight Box = iota
	BoxLeft
)

// BoxFor 偶数分站右区，奇数分站左区
func BoxFor(points int) Box {
	if points%2 == 0 {
		return BoxRight
	}
	return BoxLeft
}
