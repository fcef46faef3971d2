package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"shuttlearena/config"
	"shuttlearena/game"
)

// configView GET /admin/config 的返回
type configView struct {
	Session      string          `json:"session"`
	Tick         int64           `json:"tick"`
	Difficulty   game.Difficulty `json:"difficulty"`
	Difficulties []string        `json:"difficulties"`
	TargetScore  int             `json:"target_score"`
	TwoPointRule bool            `json:"two_point_rule"`
	TimeLimit    float64         `json:"time_limit"` // 秒，0 表示不限时
	HumanSide    game.Side       `json:"human_side"`
	Seed         int64           `json:"seed"`
}

// configUpdate POST 载荷，只更新出现的字段
type configUpdate struct {
	Difficulty   *string  `json:"difficulty,omitempty"`
	Seed         *int64   `json:"seed,omitempty"`
	TargetScore  *int     `json:"target_score,omitempty"`
	TwoPointRule *bool    `json:"two_point_rule,omitempty"`
	TimeLimit    *float64 `json:"time_limit,omitempty"`
}

func (m *SessionManager) viewOf(s *Session) configView {
	cfg := s.Config()
	v := configView{
		Session:      s.ID,
		Tick:         s.TickSeq(),
		Difficulty:   cfg.Difficulty,
		Difficulties: m.file.DifficultyNames(),
		TargetScore:  cfg.TargetScore,
		TwoPointRule: cfg.TwoPointRule,
		HumanSide:    cfg.HumanSide,
		Seed:         cfg.Seed,
	}
	if cfg.TimeLimit.Enabled {
		v.TimeLimit = cfg.TimeLimit.Seconds
	}
	return v
}

// apply 在当前配置上套用更新，返回新配置（比赛配置不原地修改，而是以新配置重开）
func (m *SessionManager) apply(cur game.Config, u configUpdate) (game.Config, error) {
	cfg := cur
	if u.Difficulty != nil {
		picked, err := m.file.Match(*u.Difficulty)
		if err != nil {
			return cur, err
		}
		cfg.Difficulty = picked.Difficulty
	}
	if u.Seed != nil {
		cfg.Seed = *u.Seed
	}
	if u.TargetScore != nil {
		cfg.TargetScore = *u.TargetScore
	}
	if u.TwoPointRule != nil {
		cfg.TwoPointRule = *u.TwoPointRule
	}
	if u.TimeLimit != nil {
		cfg.TimeLimit = game.TimeLimit{Enabled: *u.TimeLimit != 0, Seconds: *u.TimeLimit}
	}
	return cfg, cfg.Validate()
}

// HandleAdminConfig 提供会话比赛配置的读取与重开
// GET /admin/config?session=court-1  返回当前配置
// POST /admin/config?session=court-1 以 JSON 载荷更新部分字段，并以新配置重开比赛
func (m *SessionManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	s := m.GetOrCreateSession(sessionID(r))

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m.viewOf(s))
		return
	case http.MethodPost:
		var body configUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		cfg, err := m.apply(s.Config(), body)
		if err != nil {
			code := http.StatusBadRequest
			if !errors.Is(err, config.ErrUnknownDifficulty) && !errors.Is(err, game.ErrInvalidConfig) {
				code = http.StatusInternalServerError
			}
			http.Error(w, err.Error(), code)
			return
		}
		if err := s.Restart(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		Log.Infof("config updated: session=%s difficulty=%s seed=%d target=%d two_point=%v time_limit=%v",
			s.ID, cfg.Difficulty.Name, cfg.Seed, cfg.TargetScore, cfg.TwoPointRule, cfg.TimeLimit.Seconds)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

// HandleMetrics 输出指定会话的运行指标
// GET /metrics?session=court-1
func (m *SessionManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	s := m.GetOrCreateSession(sessionID(r))
	payload := map[string]any{
		"session": s.ID,
		"tick":    s.TickSeq(),
		"metrics": s.Metrics().Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
