package game

// EventKind 提供给音效模块的离散事件
type EventKind string

const (
	EventReceiveHit EventKind = "receive-hit"
	EventSmashHit   EventKind = "smash-hit"
	EventPointLost  EventKind = "point-lost"
	EventPointWon   EventKind = "point-won"
)

// Event 在发生的当帧同步发出
type Event struct {
	T      float64   `json:"t"`
	Kind   EventKind `json:"kind"`
	Side   Side      `json:"side"`
	Human  bool      `json:"human,omitempty"`
	Reason Reason    `json:"reason,omitempty"`
}

// Sink 事件接收方
type Sink func(Event)

// Fanout 依次转发给多个接收方，nil 会被跳过
func Fanout(sinks ...Sink) Sink {
	return func(ev Event) {
		for _, s := range sinks {
			if s != nil {
				s(ev)
			}
		}
	}
}
