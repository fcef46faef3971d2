package game

// Command 场景导航指令（单帧边沿）
type Command int8

const (
	CmdNone Command = iota
	CmdConfirm
	CmdHelp
	CmdBack
	CmdQuit
)

var commandNames = map[string]Command{
	"confirm": CmdConfirm,
	"help":    CmdHelp,
	"back":    CmdBack,
	"quit":    CmdQuit,
}

// ParseCommand 未知指令返回 CmdNone
func ParseCommand(v string) Command {
	return commandNames[v]
}

func (c Command) String() string {
	for k, v := range commandNames {
		if v == c {
			return k
		}
	}
	return "none"
}

// Input 外部输入快照：方向与扣杀为按住状态，Serve/ResetServe/Command 为边沿
type Input struct {
	Up, Down, Left, Right bool
	Smash                 bool
	Serve                 bool
	ResetServe            bool
	Command               Command
}

// Merge 合并同一帧内的多次输入：布尔量取或，指令以后到的非空值为准
func (in Input) Merge(o Input) Input {
	out := Input{
		Up:         in.Up || o.Up,
		Down:       in.Down || o.Down,
		Left:       in.Left || o.Left,
		Right:      in.Right || o.Right,
		Smash:      in.Smash || o.Smash,
		Serve:      in.Serve || o.Serve,
		ResetServe: in.ResetServe || o.ResetServe,
		Command:    in.Command,
	}
	if o.Command != CmdNone {
		out.Command = o.Command
	}
	return out
}

// Held 仅保留按住类输入
func (in Input) Held() Input {
	return Input{Up: in.Up, Down: in.Down, Left: in.Left, Right: in.Right, Smash: in.Smash}
}
