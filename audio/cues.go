package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"shuttlearena/game"
)

// DefaultSampleRate 与扬声器初始化保持一致
const DefaultSampleRate = beep.SampleRate(44100)

const (
	tickDuration  = 60 * time.Millisecond
	smashDuration = 110 * time.Millisecond
	noteDuration  = 140 * time.Millisecond
	tailDuration  = 220 * time.Millisecond
	slideDuration = 320 * time.Millisecond
)

// Sound 按事件类型合成一段音效，未知类型返回 nil
func Sound(kind game.EventKind, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch kind {
	case game.EventReceiveHit:
		// 高音短促的"嗒"
		s = gainOf(Note(1320, 1100, tickDuration, WaveSine, ShapePluck, rate), 0.4)
	case game.EventSmashHit:
		// 下滑的方波叠一层噪声
		s = beep.Mix(
			gainOf(Note(330, 220, smashDuration, WaveSquare, ShapePluck, rate), 0.6),
			gainOf(Note(0, 0, smashDuration, WaveNoise, ShapePluck, rate), 0.25),
		)
	case game.EventPointWon:
		// 上行两音
		s = gainOf(beep.Seq(
			Note(660, 660, noteDuration, WaveSine, ShapeSwell, rate),
			Note(990, 990, tailDuration, WaveSine, ShapeSwell, rate),
		), 0.5)
	case game.EventPointLost:
		// 下滑的锯齿波
		s = gainOf(Note(440, 294, slideDuration, WaveSaw, ShapeSwell, rate), 0.35)
	default:
		return nil
	}
	return gainOf(s, volume)
}

// Cues 把比赛事件转成音效；击球声只在人类击球时播放
type Cues struct {
	rate   beep.SampleRate
	volume float64
	play   func(beep.Streamer)
}

// NewCues play 为 nil 时静音
func NewCues(rate beep.SampleRate, volume float64, play func(beep.Streamer)) *Cues {
	return &Cues{rate: rate, volume: volume, play: play}
}

// Sink 供 game.WithSink 使用
func (c *Cues) Sink() game.Sink { return c.Play }

func (c *Cues) Play(ev game.Event) {
	if c.play == nil || c.volume <= 0 {
		return
	}
	switch ev.Kind {
	case game.EventReceiveHit, game.EventSmashHit:
		if !ev.Human {
			return
		}
	}
	if s := Sound(ev.Kind, c.rate, c.volume); s != nil {
		c.play(s)
	}
}

// Speaker 全局扬声器上的混音器；nil 时所有操作为空
type Speaker struct {
	mixer *beep.Mixer
}

// OpenSpeaker 初始化音频设备，缓冲 100ms
func OpenSpeaker(rate beep.SampleRate) (*Speaker, error) {
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, err
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *Speaker) Play(st beep.Streamer) {
	if s == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

func (s *Speaker) Close() {
	if s == nil {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}
