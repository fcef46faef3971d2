package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType 振荡器波形
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Shape 音符的幅度轮廓
type Shape int

const (
	// ShapePluck 瞬间起音后指数衰减，用于击球
	ShapePluck Shape = iota
	// ShapeSwell 短起音、保持、线性收尾，用于得失分提示
	ShapeSwell
)

const (
	pluckDecay = 5.0  // 结束时衰减到 e^-5
	swellEdge  = 0.15 // 起音与收尾各占时长的比例
)

// note 一个合成音符：频率在时长内从 from 线性滑到 to
type note struct {
	from, to float64
	wave     WaveType
	shape    Shape
	total    int
	pos      int
	phase    float64
	rate     beep.SampleRate
	noise    *rand.Rand
}

// Note 生成单个音符；from != to 时为滑音
func Note(from, to float64, d time.Duration, wave WaveType, shape Shape, rate beep.SampleRate) beep.Streamer {
	return &note{
		from:  from,
		to:    to,
		wave:  wave,
		shape: shape,
		total: rate.N(d),
		rate:  rate,
		noise: rand.New(rand.NewSource(int64(from) + 1)),
	}
}

func (n *note) Stream(samples [][2]float64) (int, bool) {
	if n.pos >= n.total {
		return 0, false
	}
	i := 0
	for ; i < len(samples) && n.pos < n.total; i++ {
		t := float64(n.pos) / float64(n.total)
		v := n.sample() * n.gain(t)
		samples[i][0], samples[i][1] = v, v

		freq := n.from + (n.to-n.from)*t
		n.phase = math.Mod(n.phase+freq/float64(n.rate), 1)
		n.pos++
	}
	return i, true
}

func (n *note) Err() error { return nil }

func (n *note) sample() float64 {
	switch n.wave {
	case WaveSquare:
		if n.phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2*n.phase - 1
	case WaveNoise:
		return n.noise.Float64()*2 - 1
	}
	return math.Sin(2 * math.Pi * n.phase)
}

// gain t 为归一化进度 [0,1)
func (n *note) gain(t float64) float64 {
	if n.shape == ShapePluck {
		return math.Exp(-pluckDecay * t)
	}
	switch {
	case t < swellEdge:
		return t / swellEdge
	case t > 1-swellEdge:
		return (1 - t) / swellEdge
	}
	return 1
}

// gainOf 线性音量转为 effects.Volume 的以 2 为底的指数；0 直接静音
func gainOf(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
