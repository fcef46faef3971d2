package server

import (
	"strings"

	"shuttlearena/game"
)

// PlayerInput 客户端输入（意图），由服务端在 Tick 中解释并驱动比赛
type PlayerInput struct {
	ClientID ClientID
	Input    game.Input
	Seq      int64 // 客户端本地序列号，用于去重

	// CommandOnly 仅携带指令的消息，不改变按住状态
	CommandOnly bool
}

// 入站输入消息（文本 JSON 或 msgpack 二进制）
// 示例：{"type":"input","seq":12,"left":true,"smash":true}
//
//	{"type":"command","command":"confirm"}
//
// 方向与扣杀为按住状态，每条消息都携带完整状态；serve/reset_serve/command 为单次触发
type InputMessage struct {
	Type       string `json:"type"`
	Seq        int64  `json:"seq,omitempty"`
	Up         bool   `json:"up,omitempty"`
	Down       bool   `json:"down,omitempty"`
	Left       bool   `json:"left,omitempty"`
	Right      bool   `json:"right,omitempty"`
	Smash      bool   `json:"smash,omitempty"`
	Serve      bool   `json:"serve,omitempty"`
	ResetServe bool   `json:"reset_serve,omitempty"`
	Command    string `json:"command,omitempty"`
}

// ToInput 转换为比赛输入；未知类型返回 false。
// quit 指令在服务端没有意义，直接丢弃。
func (im InputMessage) ToInput() (game.Input, bool) {
	cmd := game.ParseCommand(strings.ToLower(im.Command))
	if cmd == game.CmdQuit {
		cmd = game.CmdNone
	}
	switch strings.ToLower(im.Type) {
	case "input":
		return game.Input{
			Up:         im.Up,
			Down:       im.Down,
			Left:       im.Left,
			Right:      im.Right,
			Smash:      im.Smash,
			Serve:      im.Serve,
			ResetServe: im.ResetServe,
			Command:    cmd,
		}, true
	case "command":
		return game.Input{Command: cmd}, cmd != game.CmdNone
	}
	return game.Input{}, false
}
