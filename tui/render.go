package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"shuttlearena/game"
)

var (
	styleText    = tcell.StyleDefault
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLine    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleNet     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleGuide   = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleHuman   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleAI      = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleShuttle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleFlash   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

const (
	headerRows = 2 // 比分 + 状态
	footerRows = 2 // 提示 + 上一分
)

// courtView 逻辑坐标到终端格子的映射；字符格约为 1:2，横向比例取纵向的两倍
type courtView struct {
	court  game.Rect
	ox, oy int
	sx, sy float64
}

func fitCourt(court game.Rect, w, h int) (courtView, bool) {
	rows := h - headerRows - footerRows - 1
	cols := w - 2
	if rows < 8 || cols < 16 {
		return courtView{}, false
	}
	sy := math.Min(float64(rows)/court.Height, float64(cols)/(court.Width*2))
	sx := sy * 2
	width := int(court.Width * sx)
	return courtView{
		court: court,
		ox:    (w - width) / 2,
		oy:    headerRows,
		sx:    sx,
		sy:    sy,
	}, true
}

func (v courtView) cell(p game.Vec2) (int, int) {
	return v.ox + int(math.Round((p.X-v.court.Left)*v.sx)), v.oy + int(math.Round((p.Y-v.court.Top)*v.sy))
}

func (a *App) draw() {
	a.screen.Clear()
	switch a.director.Scene() {
	case game.SceneMenu:
		a.drawMenu()
	case game.SceneHowTo:
		a.drawHelp()
	case game.SceneGame:
		a.drawMatch(a.director.Match(), false)
	case game.SceneGameOver:
		a.drawMatch(a.director.Match(), true)
	}
	a.screen.Show()
}

func (a *App) text(x, y int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		a.screen.SetContent(x+i, y, r, nil, st)
	}
}

func (a *App) centered(y int, s string, st tcell.Style) {
	w, _ := a.screen.Size()
	a.text((w-len([]rune(s)))/2, y, s, st)
}

func (a *App) drawMenu() {
	_, h := a.screen.Size()
	y := h/2 - 5
	a.centered(y, "SHUTTLE ARENA", styleTitle)
	a.centered(y+2, "Enter: Start   H: How to play   Q: Quit", styleText)
	for i, line := range game.MenuLines(a.director.Config()) {
		a.centered(y+4+i, line, styleDim)
	}
}

func (a *App) drawHelp() {
	_, h := a.screen.Size()
	y := h/2 - len(game.HelpLines)/2 - 2
	a.centered(y, "HOW TO PLAY", styleTitle)
	width := 0
	for _, line := range game.HelpLines {
		width = max(width, len([]rune(line)))
	}
	w, _ := a.screen.Size()
	for i, line := range game.HelpLines {
		a.text((w-width)/2, y+2+i, line, styleText)
	}
	a.centered(y+3+len(game.HelpLines), "Esc / Enter: Back", styleDim)
}

func (a *App) drawMatch(m *game.Match, over bool) {
	if m == nil {
		return
	}
	snap := m.Snapshot()
	w, h := a.screen.Size()
	v, ok := fitCourt(snap.Court, w, h)
	if !ok {
		a.text(0, 0, "Terminal too small", styleText)
		return
	}

	a.drawHeader(snap)
	a.drawCourt(v)
	a.drawPaddler(v, snap.Top)
	a.drawPaddler(v, snap.Bottom)
	if !over {
		x, y := v.cell(game.Vec2{X: snap.Shuttle.X, Y: snap.Shuttle.Y})
		a.screen.SetContent(x, y, 'o', nil, styleShuttle)
	}

	footer := h - footerRows
	if over {
		a.centered(footer-3, " GAME OVER ", styleFlash)
		a.centered(footer-2, a.director.Result().String(), styleTitle)
		a.centered(footer, "Enter: Retry   Esc: Menu   Q: Quit", styleText)
		return
	}
	a.text(1, footer, snap.Info, styleText)
	if snap.LastPoint != nil {
		lp := fmt.Sprintf("Point: %s (%s)", strings.ToUpper(snap.LastPoint.Winner.String()), snap.LastPoint.Reason)
		a.text(1, footer+1, lp, styleDim)
	}
}

func (a *App) drawHeader(snap game.Snapshot) {
	score := fmt.Sprintf(" TOP %d : %d BOTTOM ", snap.Score.Top, snap.Score.Bottom)
	st := styleTitle
	if snap.FlashLevel(a.director.Config().ScoreFlash) > 0.5 {
		st = styleFlash
	}
	a.centered(0, score, st)

	status := fmt.Sprintf("Server: %s   Difficulty: %s", strings.ToUpper(snap.Server.String()), strings.ToUpper(snap.Difficulty))
	if snap.Timed {
		status += fmt.Sprintf("   Time: %4.1f", snap.TimeLeft)
	}
	a.centered(1, status, styleDim)
}

// drawCourt 外框、球网与两个半场的中线
func (a *App) drawCourt(v courtView) {
	c := v.court
	x0, y0 := v.cell(game.Vec2{X: c.Left, Y: c.Top})
	x1, y1 := v.cell(game.Vec2{X: c.Right(), Y: c.Bottom()})
	cx, ny := v.cell(c.Center())

	for y := y0 + 1; y < y1; y++ {
		if y != ny {
			a.screen.SetContent(cx, y, ':', nil, styleGuide)
		}
		a.screen.SetContent(x0, y, '|', nil, styleLine)
		a.screen.SetContent(x1, y, '|', nil, styleLine)
	}
	for x := x0 + 1; x < x1; x++ {
		a.screen.SetContent(x, y0, '-', nil, styleLine)
		a.screen.SetContent(x, y1, '-', nil, styleLine)
		a.screen.SetContent(x, ny, '=', nil, styleNet)
	}
	for _, p := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		a.screen.SetContent(p[0], p[1], '+', nil, styleLine)
	}
	a.screen.SetContent(x0, ny, '+', nil, styleNet)
	a.screen.SetContent(x1, ny, '+', nil, styleNet)
}

func (a *App) drawPaddler(v courtView, p game.PaddlerState) {
	x, y := v.cell(game.Vec2{X: p.X, Y: p.Y})
	r, st := '&', styleAI
	if p.Human {
		r, st = '@', styleHuman
	}
	if p.Swing {
		st = st.Reverse(true)
	}
	a.screen.SetContent(x, y, r, nil, st)
	// 球拍
	a.screen.SetContent(x-1, y, '(', nil, st)
	a.screen.SetContent(x+1, y, ')', nil, st)
}
