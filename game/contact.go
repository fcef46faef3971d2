package game

// horizontalShare 击球后横向速度占击球力量的比例
const horizontalShare = 0.6

// TryHit 处理一名球员对羽毛球的击打，返回是否击中。
//   - 同一方连续击球且球仍在本方半场：忽略（在 CanHit 之前判断）
//   - 力量 = 基础速度 (+ 扣杀加成)，横向朝对手当前 x 瞄准
//   - 纵向速度不足 MinVYAfterHit 时强制提升，保证过网
//   - 沿新速度方向推出 CrossNudge，避免下一帧再次碰撞
func (m *Match) TryHit(p, opp *Paddler) bool {
	s := m.Shuttle
	if m.State.LastHitter == p.Side && m.Court.SideOf(s.Pos.Y) == p.Side {
		return false
	}
	if !p.CanHit(m.now, s, m.Court, m.cfg.Physics.HitCooldown, m.cfg.Player) {
		return false
	}

	ph := m.cfg.Physics
	smash := p.Swing
	nx := clamp((opp.Pos.X-s.Pos.X)/ph.AimDivisor, -1, 1)

	power := ph.BaseHitSpeed
	if smash {
		power += ph.PowerHitBonus
	}
	sign := 1.0
	if p.Side == SideBottom {
		sign = -1.0
	}
	vx := power * horizontalShare * nx
	vy := power * sign
	if vy*sign < ph.MinVYAfterHit {
		vy = ph.MinVYAfterHit * sign
	}
	s.Vel = Vec2{vx, vy}
	s.Pos = s.Pos.Add(s.Vel.Norm().Scale(ph.CrossNudge))

	p.LastHit = m.now
	m.State.LastHitter = p.Side

	kind := EventReceiveHit
	if smash {
		kind = EventSmashHit
	}
	m.emit(Event{T: m.now, Kind: kind, Side: p.Side, Human: p.Human})
	return true
}
