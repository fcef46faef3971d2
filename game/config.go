package game

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidConfig 比赛配置不合法（构造时拒绝）
var ErrInvalidConfig = errors.New("invalid match config")

// Physics 羽毛球与击球相关的物理常量
type Physics struct {
	MaxShuttleSpeed float64 // 羽毛球最大速度 px/s
	Friction        float64 // 每帧速度衰减系数，(0,1]
	ShuttleRadius   float64
	BaseHitSpeed    float64
	PowerHitBonus   float64 // 扣杀额外速度
	MinVYAfterHit   float64 // 击球后最小纵向速度，保证过网
	CrossNudge      float64 // 击球后沿新速度方向推出的距离，避免同帧重复碰撞
	AimDivisor      float64 // 横向瞄准比例的分母
	ServeBonus      float64 // 发球额外速度
	HitCooldown     float64 // 秒
	LineBand        float64 // 边线判定带宽度
}

// PlayerParams 球员移动与击球范围
type PlayerParams struct {
	Speed          float64
	Padding        float64 // 半场内缩
	RacketRadius   float64
	HitMargin      float64
	InterceptFloor float64 // AI 预测时纵向速度下限
	AIDeadBand     float64
	AIReachX       float64 // AI 挥拍窗口（在球拍半径之外的额外横向距离）
	AIReachY       float64
}

// Difficulty AI 难度参数，比赛开始时选定后不可变
type Difficulty struct {
	Name       string  `json:"name"`
	SpeedScale float64 `json:"speed_scale"`
	AimError   float64 `json:"aim_error"`
	Predict    float64 `json:"predict"`
	SwingProb  float64 `json:"swing_prob"`
}

// Difficulties 内置难度表
var Difficulties = map[string]Difficulty{
	"easy":   {Name: "easy", SpeedScale: 0.62, AimError: 48, Predict: 0.12, SwingProb: 0.55},
	"normal": {Name: "normal", SpeedScale: 0.9, AimError: 22, Predict: 0.40, SwingProb: 0.85},
	"hard":   {Name: "hard", SpeedScale: 1.2, AimError: 6, Predict: 0.80, SwingProb: 1.00},
}

// DifficultyNames 按字母序返回内置难度名
func DifficultyNames() []string {
	names := make([]string, 0, len(Difficulties))
	for k := range Difficulties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// TimeLimit 每个回合的限时（可选）
type TimeLimit struct {
	Enabled bool
	Seconds float64
}

// Config 一场比赛的全部参数，构造后不可修改
type Config struct {
	Court        Court
	Physics      Physics
	Player       PlayerParams
	Difficulty   Difficulty
	TargetScore  int
	TwoPointRule bool
	TimeLimit    TimeLimit
	HumanSide    Side // SideNone 表示双方均为 AI
	AIServeDelay float64
	ServeOffset  float64 // 发球时羽毛球与发球者的纵向距离
	ScoreFlash   float64 // 得分闪烁时长
	Seed         int64
}

// DefaultConfig 返回街机版默认参数（800x900 画面中的 520x780 球场）
func DefaultConfig() Config {
	return Config{
		Court: Court{Rect{Left: 140, Top: 60, Width: 520, Height: 780}},
		Physics: Physics{
			MaxShuttleSpeed: 520,
			Friction:        0.995,
			ShuttleRadius:   10,
			BaseHitSpeed:    420,
			PowerHitBonus:   180,
			MinVYAfterHit:   320,
			CrossNudge:      14,
			AimDivisor:      120,
			ServeBonus:      80,
			HitCooldown:     0.25,
			LineBand:        6,
		},
		Player: PlayerParams{
			Speed:          420,
			Padding:        32,
			RacketRadius:   30,
			HitMargin:      4,
			InterceptFloor: 60,
			AIDeadBand:     2,
			AIReachX:       18,
			AIReachY:       120,
		},
		Difficulty:   Difficulties["normal"],
		TargetScore:  21,
		TwoPointRule: false,
		TimeLimit:    TimeLimit{Enabled: false, Seconds: 20},
		HumanSide:    SideBottom,
		AIServeDelay: 0.6,
		ServeOffset:  36,
		ScoreFlash:   0.45,
		Seed:         1,
	}
}

// Validate 检查配置；违反约定属于调用方错误，统一包装为 ErrInvalidConfig
func (c Config) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.Court.Width <= 0 || c.Court.Height <= c.Court.Width {
		return fail("court must be portrait, got %.0fx%.0f", c.Court.Width, c.Court.Height)
	}
	if c.TargetScore <= 0 {
		return fail("target score must be positive, got %d", c.TargetScore)
	}
	p := c.Physics
	if p.Friction <= 0 || p.Friction > 1 {
		return fail("friction must be in (0,1], got %v", p.Friction)
	}
	if p.MaxShuttleSpeed <= 0 || p.ShuttleRadius <= 0 || p.AimDivisor <= 0 {
		return fail("max shuttle speed, shuttle radius and aim divisor must be positive")
	}
	if p.BaseHitSpeed < 0 || p.PowerHitBonus < 0 || p.MinVYAfterHit < 0 || p.CrossNudge < 0 ||
		p.ServeBonus < 0 || p.HitCooldown < 0 || p.LineBand < 0 {
		return fail("physics constants must not be negative")
	}
	pl := c.Player
	if pl.Speed < 0 || pl.RacketRadius < 0 || pl.HitMargin < 0 || pl.AIDeadBand < 0 ||
		pl.AIReachX < 0 || pl.AIReachY < 0 {
		return fail("player constants must not be negative")
	}
	if pl.InterceptFloor <= 0 {
		return fail("intercept floor must be positive, got %v", pl.InterceptFloor)
	}
	if pl.Padding < 0 || 2*pl.Padding >= c.Court.Width || 2*pl.Padding >= c.Court.Height/2 {
		return fail("player padding %v does not fit the half court", pl.Padding)
	}
	d := c.Difficulty
	if d.SpeedScale < 0 || d.AimError < 0 {
		return fail("difficulty %q: speed scale and aim error must not be negative", d.Name)
	}
	if d.Predict < 0 || d.Predict > 1 || d.SwingProb < 0 || d.SwingProb > 1 {
		return fail("difficulty %q: predict and swing probability must be in [0,1]", d.Name)
	}
	if c.HumanSide != SideNone && c.HumanSide != SideTop && c.HumanSide != SideBottom {
		return fail("unknown human side %d", c.HumanSide)
	}
	if c.AIServeDelay < 0 || c.ServeOffset < 0 || c.ScoreFlash < 0 {
		return fail("serve delay, serve offset and score flash must not be negative")
	}
	if c.ServeOffset >= c.Court.Height/4 {
		return fail("serve offset %v would put the shuttle across the net", c.ServeOffset)
	}
	if c.TimeLimit.Enabled && c.TimeLimit.Seconds <= 0 {
		return fail("time limit enabled with non-positive duration %v", c.TimeLimit.Seconds)
	}
	return nil
}
