package game

import (
	"fmt"
	"strings"
)

// SceneKind 顶层场景
type SceneKind int8

const (
	SceneMenu SceneKind = iota
	SceneHowTo
	SceneGame
	SceneGameOver
	SceneQuit
)

func (k SceneKind) String() string {
	switch k {
	case SceneMenu:
		return "menu"
	case SceneHowTo:
		return "howto"
	case SceneGame:
		return "game"
	case SceneGameOver:
		return "gameover"
	case SceneQuit:
		return "quit"
	}
	return "unknown"
}

func (k SceneKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Transition 场景每帧返回的切换请求，由 Director 解释
type Transition int8

const (
	TransNone Transition = iota
	TransToMenu
	TransToHowTo
	TransToGame
	TransToGameOver
	TransQuit
)

// NextScene 纯函数：当前场景 + 请求 -> 下一场景
func NextScene(cur SceneKind, t Transition) SceneKind {
	if cur == SceneQuit {
		return SceneQuit
	}
	switch t {
	case TransToMenu:
		return SceneMenu
	case TransToHowTo:
		return SceneHowTo
	case TransToGame:
		return SceneGame
	case TransToGameOver:
		if cur == SceneGame {
			return SceneGameOver
		}
	case TransQuit:
		return SceneQuit
	}
	return cur
}

// Result 比赛结束时的结果，供结算场景展示
type Result struct {
	Score  Score  `json:"score"`
	Reason Reason `json:"reason"`
	Winner Side   `json:"winner"`
}

func (r Result) String() string {
	return fmt.Sprintf("Reason: %s | Winner: %s | TOP %d : %d BOTTOM",
		r.Reason, strings.ToUpper(r.Winner.String()), r.Score.Top, r.Score.Bottom)
}

// Director 持有当前场景与比赛；每次进入 SceneGame 都新建比赛（第 n 局种子为 Seed+n）
type Director struct {
	cfg    Config
	opts   []Option
	scene  SceneKind
	match  *Match
	result Result
	played int64
}

// NewDirector 校验配置后从 start 场景开始
func NewDirector(cfg Config, start SceneKind, opts ...Option) (*Director, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if start == SceneGameOver {
		start = SceneMenu
	}
	d := &Director{cfg: cfg, opts: opts}
	d.enter(start)
	return d, nil
}

func (d *Director) Scene() SceneKind { return d.scene }

// Match 当前比赛；仅在 SceneGame / SceneGameOver 中非空
func (d *Director) Match() *Match { return d.match }

func (d *Director) Result() Result { return d.result }

func (d *Director) Config() Config { return d.cfg }

// Step 推进当前场景一帧并执行其切换请求
func (d *Director) Step(dt float64, in Input) Transition {
	t := d.request(dt, in)
	if next := NextScene(d.scene, t); next != d.scene {
		d.enter(next)
	}
	return t
}

func (d *Director) request(dt float64, in Input) Transition {
	switch d.scene {
	case SceneMenu:
		switch in.Command {
		case CmdConfirm:
			return TransToGame
		case CmdHelp:
			return TransToHowTo
		case CmdQuit:
			return TransQuit
		}
	case SceneHowTo:
		switch in.Command {
		case CmdBack, CmdConfirm:
			return TransToMenu
		case CmdQuit:
			return TransQuit
		}
	case SceneGame:
		if in.Command == CmdBack {
			return TransToMenu
		}
		d.match.Update(dt, in)
		if d.match.Over() {
			lp, _ := d.match.LastPoint()
			d.result = Result{Score: d.match.State.Score, Reason: lp.Reason, Winner: d.match.Winner()}
			return TransToGameOver
		}
	case SceneGameOver:
		switch in.Command {
		case CmdConfirm:
			return TransToGame
		case CmdBack:
			return TransToMenu
		case CmdQuit:
			return TransQuit
		}
	}
	return TransNone
}

func (d *Director) enter(next SceneKind) {
	d.scene = next
	switch next {
	case SceneGame:
		// 每局换一个种子，重赛时 AI 的随机序列不同
		cfg := d.cfg
		cfg.Seed += d.played
		d.played++
		d.match = newMatch(cfg, d.opts...)
		d.result = Result{}
	case SceneGameOver:
		// 保留比赛以便渲染最终局面
	default:
		d.match = nil
	}
}

// MenuLines 主菜单底部说明
func MenuLines(cfg Config) []string {
	rule := "OFF"
	if cfg.TwoPointRule {
		rule = "ON"
	}
	return []string{
		"←/→/↑/↓ : Move, Enter = Serve, Space = Smash, ESC = Menu",
		fmt.Sprintf("Target Score : %d / Two-Point Rule : %s", cfg.TargetScore, rule),
		fmt.Sprintf("Difficulty : %s", strings.ToUpper(cfg.Difficulty.Name)),
	}
}

// HelpLines 操作说明
var HelpLines = []string{
	"Arrow keys ←/→/↑/↓ : Move left/right/forward/back",
	"Enter              : Start serve",
	"Space              : Smash (faster return)",
	"R                  : Reset serve",
	"",
	"Serve rules:",
	"- Point-winner serves next",
	"- Odd score: left; even: right",
}
