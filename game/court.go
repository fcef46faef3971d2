package game

// Court 竖向球场；CenterY 为球网所在的水平线
type Court struct {
	Rect
}

// HalfRect 以 CenterY 为界切分的半场
func (c Court) HalfRect(side Side) Rect {
	half := Rect{Left: c.Left, Top: c.Top, Width: c.Width, Height: c.Height / 2}
	if side == SideBottom {
		half.Top = c.CenterY()
	}
	return half
}

// AllowedRect 球员可活动范围：半场四边各内缩 pad
func (c Court) AllowedRect(side Side, pad float64) Rect {
	return c.HalfRect(side).Inset(pad)
}

// SideOf y 恰好在网线上时算下半场
func (c Court) SideOf(y float64) Side {
	if y < c.CenterY() {
		return SideTop
	}
	return SideBottom
}

// SideSpot 半场内左/右发球区的站位点。
// 上半场的球员面朝下方，其"右"对应屏幕左侧，所以左右镜像。
func (c Court) SideSpot(side Side, box Box) Vec2 {
	half := c.HalfRect(side)
	dx := half.Width * 0.25
	if box == BoxLeft {
		dx = -dx
	}
	x := half.CenterX() + dx
	if side == SideTop {
		x = half.CenterX() - dx
	}
	return Vec2{X: x, Y: half.CenterY()}
}

// ServeSpot 发球者按自己分数的奇偶选区
func (c Court) ServeSpot(side Side, score Score) Vec2 {
	return c.SideSpot(side, BoxFor(score.Of(side)))
}

// ReceiveSpot 接发球者站在对角区（仍按发球者分数的奇偶）
func (c Court) ReceiveSpot(server Side, score Score) Vec2 {
	return c.SideSpot(server.Opponent(), BoxFor(score.Of(server)))
}
