package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"shuttlearena/game"
)

const testRate = beep.SampleRate(8000)

// drain 读完整个流，返回采样数与最大幅值
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 256)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok || n == 0 {
			return total, peak
		}
	}
}

func TestNoteLengthAndRange(t *testing.T) {
	d := 100 * time.Millisecond
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		for _, shape := range []Shape{ShapePluck, ShapeSwell} {
			n := Note(440, 220, d, wave, shape, testRate)
			got, peak := drain(n)
			if got != testRate.N(d) {
				t.Errorf("wave %d shape %d: expected %d samples, got %d", wave, shape, testRate.N(d), got)
			}
			if peak > 1 {
				t.Errorf("wave %d shape %d: sample out of range %f", wave, shape, peak)
			}
			if n.Err() != nil {
				t.Errorf("wave %d shape %d: unexpected error %v", wave, shape, n.Err())
			}
		}
	}
}

// 方波幅值恒为 1，输出绝对值即包络本身
func envelopeOf(shape Shape, d time.Duration) [][2]float64 {
	buf := make([][2]float64, testRate.N(d))
	Note(100, 100, d, WaveSquare, shape, testRate).Stream(buf)
	return buf
}

func TestPluckDecays(t *testing.T) {
	buf := envelopeOf(ShapePluck, 100*time.Millisecond)
	if buf[0][0] != 1 {
		t.Errorf("pluck should start at full scale, got %f", buf[0][0])
	}
	for i := 1; i < len(buf); i++ {
		if math.Abs(buf[i][0]) > math.Abs(buf[i-1][0]) {
			t.Fatalf("pluck must not grow: sample %d %f > %f", i, buf[i][0], buf[i-1][0])
		}
	}
	if last := math.Abs(buf[len(buf)-1][0]); last >= 0.01 {
		t.Errorf("pluck should decay out, got %f", last)
	}
}

func TestSwellShape(t *testing.T) {
	buf := envelopeOf(ShapeSwell, 100*time.Millisecond)
	n := len(buf)
	if buf[0][0] != 0 {
		t.Errorf("swell should start silent, got %f", buf[0][0])
	}
	if mid := math.Abs(buf[n/2][0]); mid != 1 {
		t.Errorf("swell should hold full scale, got %f", mid)
	}
	if last := math.Abs(buf[n-1][0]); last >= 0.1 {
		t.Errorf("swell should fade out, got %f", last)
	}
}

func TestNoteGlidesPitch(t *testing.T) {
	buf := make([][2]float64, testRate.N(time.Second))
	Note(440, 880, time.Second, WaveSine, ShapeSwell, testRate).Stream(buf)
	crossings := func(part [][2]float64) int {
		c := 0
		for i := 1; i < len(part); i++ {
			if part[i-1][0]*part[i][0] < 0 {
				c++
			}
		}
		return c
	}
	q := len(buf) / 4
	first, last := crossings(buf[:q]), crossings(buf[len(buf)-q:])
	if float64(last) < float64(first)*1.3 {
		t.Errorf("pitch should rise: %d crossings at start, %d at end", first, last)
	}
}

func TestSoundPerEventKind(t *testing.T) {
	for _, kind := range []game.EventKind{game.EventReceiveHit, game.EventSmashHit, game.EventPointWon, game.EventPointLost} {
		s := Sound(kind, testRate, 1)
		if s == nil {
			t.Errorf("%s: no sound", kind)
			continue
		}
		n, peak := drain(s)
		if n == 0 || peak == 0 {
			t.Errorf("%s: empty sound (n=%d peak=%f)", kind, n, peak)
		}
	}
	if Sound("unknown", testRate, 1) != nil {
		t.Error("unknown kinds should be silent")
	}

	_, silent := drain(Sound(game.EventPointWon, testRate, 0))
	if silent != 0 {
		t.Errorf("zero volume should be silent, peak=%f", silent)
	}
}

func TestCuesFilterAIHits(t *testing.T) {
	var played int
	c := NewCues(testRate, 1, func(beep.Streamer) { played++ })
	sink := c.Sink()

	sink(game.Event{Kind: game.EventReceiveHit, Side: game.SideTop})
	sink(game.Event{Kind: game.EventSmashHit, Side: game.SideTop})
	if played != 0 {
		t.Fatalf("AI hits should not play, got %d", played)
	}
	sink(game.Event{Kind: game.EventSmashHit, Side: game.SideBottom, Human: true})
	sink(game.Event{Kind: game.EventPointLost, Side: game.SideTop})
	sink(game.Event{Kind: game.EventPointWon, Side: game.SideBottom, Human: true})
	if played != 3 {
		t.Errorf("expected 3 cues, got %d", played)
	}
}

func TestCuesMuted(t *testing.T) {
	var played int
	NewCues(testRate, 0, func(beep.Streamer) { played++ }).Play(game.Event{Kind: game.EventPointWon})
	NewCues(testRate, 1, nil).Play(game.Event{Kind: game.EventPointWon})
	var spk *Speaker
	spk.Play(Sound(game.EventPointWon, testRate, 1))
	spk.Close()
	if played != 0 {
		t.Errorf("muted cues played %d sounds", played)
	}
}

func TestCuesFromMatch(t *testing.T) {
	var kinds []game.EventKind
	c := NewCues(testRate, 1, func(beep.Streamer) {})
	sink := game.Fanout(c.Sink(), func(ev game.Event) { kinds = append(kinds, ev.Kind) })

	cfg := game.DefaultConfig()
	m, err := game.NewMatch(cfg, game.WithSink(sink))
	if err != nil {
		t.Fatal(err)
	}
	m.AwardPoint(game.SideBottom, game.ReasonSideOut)
	m.AwardPoint(game.SideTop, game.ReasonBaselineOut)
	if len(kinds) != 2 || kinds[0] != game.EventPointWon || kinds[1] != game.EventPointLost {
		t.Errorf("unexpected events %v", kinds)
	}
}
