package server

// ClientID 会话内连接的唯一标识
type ClientID string

// Role 连接在会话中的身份
type Role string

const (
	RolePlayer    Role = "player"    // 占据人类球员席位
	RoleSpectator Role = "spectator" // 只接收画面
)

// ParseRole 空串视为 player，其余未知值返回 false
func ParseRole(v string) (Role, bool) {
	switch Role(v) {
	case "", RolePlayer:
		return RolePlayer, true
	case RoleSpectator:
		return RoleSpectator, true
	}
	return "", false
}

// Client 会话内的一条连接（服务端权威状态只在 Tick 线程修改）
type Client struct {
	ID      ClientID
	Role    Role
	LastSeq int64 // 已处理的最大输入序列号

	Conn *ClientConn // 网络连接的发送端（写协程）
}
