package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"shuttlearena/game"
)

// ErrUnknownDifficulty 请求的难度不在配置表中
var ErrUnknownDifficulty = errors.New("unknown difficulty")

type CourtConfig struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PhysicsConfig struct {
	MaxShuttleSpeed float64 `yaml:"max_shuttle_speed"`
	Friction        float64 `yaml:"friction"`
	ShuttleRadius   float64 `yaml:"shuttle_radius"`
	BaseHitSpeed    float64 `yaml:"base_hit_speed"`
	PowerHitBonus   float64 `yaml:"power_hit_bonus"`
	MinVYAfterHit   float64 `yaml:"min_vy_after_hit"`
	CrossNudge      float64 `yaml:"cross_nudge"`
	AimDivisor      float64 `yaml:"aim_divisor"`
	ServeBonus      float64 `yaml:"serve_bonus"`
	HitCooldown     float64 `yaml:"hit_cooldown"`
	LineBand        float64 `yaml:"line_band"`
}

type PlayerConfig struct {
	Speed          float64 `yaml:"speed"`
	Padding        float64 `yaml:"padding"`
	RacketRadius   float64 `yaml:"racket_radius"`
	HitMargin      float64 `yaml:"hit_margin"`
	InterceptFloor float64 `yaml:"intercept_floor"`
	AIDeadBand     float64 `yaml:"ai_dead_band"`
	AIReachX       float64 `yaml:"ai_reach_x"`
	AIReachY       float64 `yaml:"ai_reach_y"`
}

type TimeLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	Seconds float64 `yaml:"seconds"`
}

type RulesConfig struct {
	TargetScore  int             `yaml:"target_score"`
	TwoPointRule bool            `yaml:"two_point_rule"`
	TimeLimit    TimeLimitConfig `yaml:"time_limit"`
	HumanSide    string          `yaml:"human_side"`
	Difficulty   string          `yaml:"difficulty"`
	AIServeDelay float64         `yaml:"ai_serve_delay"`
	ServeOffset  float64         `yaml:"serve_offset"`
	ScoreFlash   float64         `yaml:"score_flash"`
	Seed         int64           `yaml:"seed"`
}

type DifficultyConfig struct {
	SpeedScale float64 `yaml:"speed_scale"`
	AimError   float64 `yaml:"aim_error"`
	Predict    float64 `yaml:"predict"`
	SwingProb  float64 `yaml:"swing_prob"`
}

// File match.yaml 的结构
type File struct {
	Court        CourtConfig                 `yaml:"court"`
	Physics      PhysicsConfig               `yaml:"physics"`
	Player       PlayerConfig                `yaml:"player"`
	Rules        RulesConfig                 `yaml:"rules"`
	Difficulties map[string]DifficultyConfig `yaml:"difficulties"`
}

// Default 内置默认值，与 game.DefaultConfig 一致
func Default() *File {
	d := game.DefaultConfig()
	f := &File{
		Court: CourtConfig{Left: d.Court.Left, Top: d.Court.Top, Width: d.Court.Width, Height: d.Court.Height},
		Physics: PhysicsConfig{
			MaxShuttleSpeed: d.Physics.MaxShuttleSpeed,
			Friction:        d.Physics.Friction,
			ShuttleRadius:   d.Physics.ShuttleRadius,
			BaseHitSpeed:    d.Physics.BaseHitSpeed,
			PowerHitBonus:   d.Physics.PowerHitBonus,
			MinVYAfterHit:   d.Physics.MinVYAfterHit,
			CrossNudge:      d.Physics.CrossNudge,
			AimDivisor:      d.Physics.AimDivisor,
			ServeBonus:      d.Physics.ServeBonus,
			HitCooldown:     d.Physics.HitCooldown,
			LineBand:        d.Physics.LineBand,
		},
		Player: PlayerConfig(d.Player),
		Rules: RulesConfig{
			TargetScore:  d.TargetScore,
			TwoPointRule: d.TwoPointRule,
			TimeLimit:    TimeLimitConfig(d.TimeLimit),
			HumanSide:    d.HumanSide.String(),
			Difficulty:   d.Difficulty.Name,
			AIServeDelay: d.AIServeDelay,
			ServeOffset:  d.ServeOffset,
			ScoreFlash:   d.ScoreFlash,
			Seed:         d.Seed,
		},
		Difficulties: make(map[string]DifficultyConfig, len(game.Difficulties)),
	}
	for name, diff := range game.Difficulties {
		f.Difficulties[name] = DifficultyConfig{
			SpeedScale: diff.SpeedScale,
			AimError:   diff.AimError,
			Predict:    diff.Predict,
			SwingProb:  diff.SwingProb,
		}
	}
	return f
}

// Load 读取 YAML 文件；文件中未出现的字段保留默认值
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return f, nil
}

// Parse 在默认值之上解析 YAML
func Parse(b []byte) (*File, error) {
	f := Default()
	if err := yaml.Unmarshal(b, f); err != nil {
		return nil, err
	}
	return f, nil
}

// DifficultyNames 配置中的难度名（字母序）
func (f *File) DifficultyNames() []string {
	names := make([]string, 0, len(f.Difficulties))
	for k := range f.Difficulties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Match 生成一场比赛的配置；difficulty 为空时使用 rules.difficulty
func (f *File) Match(difficulty string) (game.Config, error) {
	if difficulty == "" {
		difficulty = f.Rules.Difficulty
	}
	dc, ok := f.Difficulties[difficulty]
	if !ok {
		return game.Config{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownDifficulty, difficulty, f.DifficultyNames())
	}
	side, err := game.ParseSide(f.Rules.HumanSide)
	if err != nil {
		return game.Config{}, fmt.Errorf("%w: %v", game.ErrInvalidConfig, err)
	}

	cfg := game.Config{
		Court: game.Court{Rect: game.Rect{
			Left: f.Court.Left, Top: f.Court.Top, Width: f.Court.Width, Height: f.Court.Height,
		}},
		Physics: game.Physics{
			MaxShuttleSpeed: f.Physics.MaxShuttleSpeed,
			Friction:        f.Physics.Friction,
			ShuttleRadius:   f.Physics.ShuttleRadius,
			BaseHitSpeed:    f.Physics.BaseHitSpeed,
			PowerHitBonus:   f.Physics.PowerHitBonus,
			MinVYAfterHit:   f.Physics.MinVYAfterHit,
			CrossNudge:      f.Physics.CrossNudge,
			AimDivisor:      f.Physics.AimDivisor,
			ServeBonus:      f.Physics.ServeBonus,
			HitCooldown:     f.Physics.HitCooldown,
			LineBand:        f.Physics.LineBand,
		},
		Player: game.PlayerParams(f.Player),
		Difficulty: game.Difficulty{
			Name:       difficulty,
			SpeedScale: dc.SpeedScale,
			AimError:   dc.AimError,
			Predict:    dc.Predict,
			SwingProb:  dc.SwingProb,
		},
		TargetScore:  f.Rules.TargetScore,
		TwoPointRule: f.Rules.TwoPointRule,
		TimeLimit:    game.TimeLimit(f.Rules.TimeLimit),
		HumanSide:    side,
		AIServeDelay: f.Rules.AIServeDelay,
		ServeOffset:  f.Rules.ServeOffset,
		ScoreFlash:   f.Rules.ScoreFlash,
		Seed:         f.Rules.Seed,
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}
