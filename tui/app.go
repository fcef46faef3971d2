package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"shuttlearena/game"
)

const (
	// HoldWindow 终端不上报按键抬起，方向键在最后一次按下后的这段时间内视为按住
	HoldWindow = 150 * time.Millisecond

	frameInterval = 16 * time.Millisecond // ~60 FPS
	maxFrameDT    = 0.1                   // 卡顿后的单帧上限（秒）
)

type heldKey int

const (
	keyUp heldKey = iota
	keyDown
	keyLeft
	keyRight
	keySmash
	heldKeyCount
)

// App 终端驱动：收集按键、按帧推进 Director 并绘制当前场景
type App struct {
	screen   tcell.Screen
	director *game.Director
	log      *zap.Logger

	held  [heldKeyCount]time.Time
	edges game.Input
	quit  bool
}

// New screen 需已 Init；log 为 nil 时不输出
func New(screen tcell.Screen, d *game.Director, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{screen: screen, director: d, log: log}
}

// Director 当前驱动的场景控制器
func (a *App) Director() *game.Director { return a.director }

// Run 主循环：事件与帧定时器在同一协程处理，直到退出场景或 ctx 取消
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Fini 之后返回 nil
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()
	a.draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			a.handleEvent(ev, time.Now())
			if a.quit {
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxFrameDT {
				dt = maxFrameDT
			}
			if a.Step(dt, now) {
				a.log.Info("quit from scene", zap.Stringer("scene", a.director.Scene()))
				return nil
			}
			a.draw()
		}
	}
}

// Step 以当前按键状态推进一帧；返回 true 表示应退出
func (a *App) Step(dt float64, now time.Time) bool {
	in := a.input(now)
	a.edges = game.Input{}
	before := a.director.Scene()
	a.director.Step(dt, in)
	if after := a.director.Scene(); after != before {
		a.log.Debug("scene", zap.Stringer("from", before), zap.Stringer("to", after))
	}
	return a.quit || a.director.Scene() == game.SceneQuit
}

// input 合并按住窗口内的方向键与本帧的单次触发
func (a *App) input(now time.Time) game.Input {
	on := func(k heldKey) bool {
		t := a.held[k]
		return !t.IsZero() && now.Sub(t) <= HoldWindow
	}
	in := a.edges
	in.Up = on(keyUp)
	in.Down = on(keyDown)
	in.Left = on(keyLeft)
	in.Right = on(keyRight)
	in.Smash = on(keySmash)
	return in
}

func (a *App) handleEvent(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ev.Key(), ev.Rune(), now)
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

// handleKey 方向键/空格记录按下时间，其余按键为单次触发
func (a *App) handleKey(key tcell.Key, r rune, now time.Time) {
	switch key {
	case tcell.KeyUp:
		a.held[keyUp] = now
	case tcell.KeyDown:
		a.held[keyDown] = now
	case tcell.KeyLeft:
		a.held[keyLeft] = now
	case tcell.KeyRight:
		a.held[keyRight] = now
	case tcell.KeyEnter:
		a.edges.Serve = true
		a.edges.Command = game.CmdConfirm
	case tcell.KeyEscape:
		a.edges.Command = game.CmdBack
	case tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyRune:
		switch r {
		case ' ':
			a.held[keySmash] = now
		case 'r', 'R':
			a.edges.ResetServe = true
		case 'h', 'H':
			a.edges.Command = game.CmdHelp
		case 'q', 'Q':
			a.edges.Command = game.CmdQuit
		}
	}
}
