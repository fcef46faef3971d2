package game

import "math"

// Shuttle 羽毛球：平面运动，各向同性阻力，无重力
type Shuttle struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
}

func NewShuttle(radius float64, pos Vec2) *Shuttle {
	return &Shuttle{Pos: pos, Radius: radius}
}

// Integrate 推进一帧：
// 1) 阻力：每次调用乘一次 Friction（按帧衰减，与 dt 无关）
// 2) 欧拉积分位置
// 3) 限速：超过 MaxShuttleSpeed 时按方向缩放到恰好等于上限
func (s *Shuttle) Integrate(dt float64, p Physics) {
	if dt < 0 {
		dt = 0
	}
	s.Vel = s.Vel.Scale(p.Friction)
	s.Pos = s.Pos.Add(s.Vel.Scale(dt))

	if sp := s.Vel.Len(); sp > p.MaxShuttleSpeed {
		s.Vel = s.Vel.Scale(p.MaxShuttleSpeed / sp)
		// 缩放后的舍入可能多出一个 ulp，逐步收回直到不超过上限
		for s.Vel.Len() > p.MaxShuttleSpeed {
			s.Vel = s.Vel.Scale(math.Nextafter(1, 0))
		}
	}
}

func (s *Shuttle) Speed() float64 { return s.Vel.Len() }

// Reset 放到指定位置并清零速度
func (s *Shuttle) Reset(pos Vec2) {
	s.Pos = pos
	s.Vel = Vec2{}
}
