package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"shuttlearena/config"
	"shuttlearena/game"
)

// DefaultSessionID 未指定 session 参数时使用的会话
const DefaultSessionID = "court-1"

// SessionManager 管理多个会话的生命周期；所有会话共用同一份配置文件
type SessionManager struct {
	ctx      context.Context
	file     *config.File
	base     game.Config
	mu       sync.RWMutex
	sessions map[string]*Session
	clientN  atomic.Int64
}

var (
	defaultManager *SessionManager
	once           sync.Once
)

// NewSessionManager difficulty 为空时使用配置文件中的默认难度
func NewSessionManager(ctx context.Context, file *config.File, difficulty string) (*SessionManager, error) {
	if file == nil {
		file = config.Default()
	}
	base, err := file.Match(difficulty)
	if err != nil {
		return nil, err
	}
	return &SessionManager{
		ctx:      ctx,
		file:     file,
		base:     base,
		sessions: make(map[string]*Session),
	}, nil
}

// InitSessionManager 设置单例；只有第一次调用生效
func InitSessionManager(ctx context.Context, file *config.File, difficulty string) (*SessionManager, error) {
	var err error
	once.Do(func() {
		defaultManager, err = NewSessionManager(ctx, file, difficulty)
	})
	if err != nil {
		return nil, err
	}
	if defaultManager == nil {
		return nil, fmt.Errorf("session manager: initialization failed earlier")
	}
	return defaultManager, nil
}

// GetSessionManager 单例会话管理器（未初始化时使用内置默认配置）
func GetSessionManager() *SessionManager {
	once.Do(func() {
		defaultManager, _ = NewSessionManager(context.Background(), config.Default(), "")
	})
	return defaultManager
}

// BaseConfig 新会话使用的配置
func (m *SessionManager) BaseConfig() game.Config { return m.base }

// File 难度表等配置来源
func (m *SessionManager) File() *config.File { return m.file }

// GetOrCreateSession 获取或创建会话，并确保开始 Tick
func (m *SessionManager) GetOrCreateSession(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		// base 已在构造时校验，这里不会失败
		s, _ = NewSession(id, m.base)
		m.sessions[id] = s
		s.StartTicker(m.ctx)
		Log.Infof("session created: id=%s difficulty=%s", id, m.base.Difficulty.Name)
	}
	return s
}

// Session 查找已有会话
func (m *SessionManager) Session(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) nextClientID(name string) ClientID {
	if name == "" {
		name = "guest"
	}
	return ClientID(fmt.Sprintf("%s-%d", name, m.clientN.Add(1)))
}

// Routes 注册 HTTP 路由；webDir 为空时不提供静态资源
func (m *SessionManager) Routes(webDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.HandleWS)
	if webDir != "" {
		// 前后端分离：将 / 映射到 web 目录的静态资源
		mux.Handle("/", http.FileServer(http.Dir(webDir)))
	}
	// 管理与监控接口
	mux.HandleFunc("/admin/config", m.HandleAdminConfig)
	mux.HandleFunc("/metrics", m.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func sessionID(r *http.Request) string {
	if id := r.URL.Query().Get("session"); id != "" {
		return id
	}
	return DefaultSessionID
}
