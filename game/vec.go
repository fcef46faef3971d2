package game

import "math"

// epsilon 归一化与除法的下限保护
const epsilon = 1e-6

// Vec2 二维向量（像素坐标，y 轴向下）
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }

// Norm 返回单位向量；长度低于 epsilon 时返回零向量
func (a Vec2) Norm() Vec2 {
	l := a.Len()
	if l <= epsilon {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Rect 轴对齐矩形
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64   { return r.Left + r.Width }
func (r Rect) Bottom() float64  { return r.Top + r.Height }
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }
func (r Rect) Center() Vec2     { return Vec2{r.CenterX(), r.CenterY()} }

// Inset 四边各向内收缩 pad
func (r Rect) Inset(pad float64) Rect {
	return Rect{Left: r.Left + pad, Top: r.Top + pad, Width: r.Width - 2*pad, Height: r.Height - 2*pad}
}

// Contains 闭区间包含判断
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// Clamp 将点裁剪进矩形（含边界）
func (r Rect) Clamp(p Vec2) Vec2 {
	return Vec2{clamp(p.X, r.Left, r.Right()), clamp(p.Y, r.Top, r.Bottom())}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
