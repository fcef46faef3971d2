package game

import (
	"math"
	"math/rand"
)

// neverHit 初始的上次击球时间，保证开局即可击球
const neverHit = -999.0

// Paddler 一侧的球员（人类或 AI），整场比赛只创建一次，发球时重新摆位
type Paddler struct {
	Side    Side
	Human   bool
	Pos     Vec2
	Swing   bool    // 本帧是否发力（扣杀）
	LastHit float64 // 比赛时钟，秒
}

// NewPaddler 初始站位：半场中线，距底线 20% 球场高度
func NewPaddler(side Side, human bool, court Court) *Paddler {
	y := court.Top + court.Height*0.20
	if side == SideBottom {
		y = court.Bottom() - court.Height*0.20
	}
	return &Paddler{
		Side:    side,
		Human:   human,
		Pos:     Vec2{X: court.CenterX(), Y: y},
		LastHit: neverHit,
	}
}

func (p *Paddler) clampTo(court Court, pl PlayerParams) {
	p.Pos = court.AllowedRect(p.Side, pl.Padding).Clamp(p.Pos)
}

// MoveHuman 按方向键移动：两个轴独立叠加，斜向不做归一化
func (p *Paddler) MoveHuman(dt float64, in Input, court Court, pl PlayerParams) {
	step := pl.Speed * dt
	dx, dy := 0.0, 0.0
	if in.Right {
		dx += step
	}
	if in.Left {
		dx -= step
	}
	if in.Down {
		dy += step
	}
	if in.Up {
		dy -= step
	}
	p.Pos = p.Pos.Add(Vec2{dx, dy})
	p.clampTo(court, pl)
}

// MoveAI 预测羽毛球到达本方时的横坐标并追过去。
// 拦截时间用纵向速度估算（下限 InterceptFloor 防止除零），
// 预测点与当前位置按 Predict 混合，再叠加 [-AimError, AimError] 的随机误差。
func (p *Paddler) MoveAI(dt float64, s *Shuttle, d Difficulty, court Court, pl PlayerParams, rng *rand.Rand) {
	dy := math.Abs(p.Pos.Y - s.Pos.Y)
	tToMe := dy / math.Max(pl.InterceptFloor, math.Abs(s.Vel.Y))
	predictedX := s.Pos.X + s.Vel.X*tToMe

	w := clamp(d.Predict, 0, 1)
	targetX := (1-w)*s.Pos.X + w*predictedX
	targetX += (rng.Float64()*2 - 1) * d.AimError

	step := pl.Speed * d.SpeedScale * dt
	if gap := targetX - p.Pos.X; math.Abs(gap) > pl.AIDeadBand {
		step = math.Min(step, math.Abs(gap))
		if gap < 0 {
			step = -step
		}
		p.Pos.X += step
	}
	p.clampTo(court, pl)

	nearX := math.Abs(s.Pos.X-p.Pos.X) <= pl.RacketRadius+pl.AIReachX
	nearY := math.Abs(s.Pos.Y-p.Pos.Y) <= pl.AIReachY
	// 随机数无论是否靠近都消耗一次，使 AI 序列只依赖种子与帧数
	roll := rng.Float64()
	p.Swing = nearX && nearY && roll < d.SwingProb
}

// CanHit 冷却、所在半场、球拍距离三项检查
func (p *Paddler) CanHit(now float64, s *Shuttle, court Court, cooldown float64, pl PlayerParams) bool {
	if now-p.LastHit < cooldown {
		return false
	}
	if court.SideOf(s.Pos.Y) != p.Side {
		return false
	}
	return s.Pos.Sub(p.Pos).Len() <= p.Reach(s, pl)
}

// Reach 球拍可触及的半径（含羽毛球半径与容差）
func (p *Paddler) Reach(s *Shuttle, pl PlayerParams) float64 {
	return pl.RacketRadius + s.Radius + pl.HitMargin
}
