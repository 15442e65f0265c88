package audio

import (
	"hash/fnv"
	"math"

	"github.com/gopxl/beep"
)

// pitchTable holds the frequencies voices are assigned from, Hz.
// A pentatonic spread keeps simultaneous demo voices from beating
// against each other.
var pitchTable = []float64{220.0, 261.63, 293.66, 329.63, 392.0, 440.0}

// pitchFor deterministically assigns a frequency to a participant ID
func pitchFor(id string) float64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return pitchTable[h.Sum32()%uint32(len(pitchTable))]
}

// tone is an endless sine streamer standing in for one participant's
// voice channel
type tone struct {
	freq  float64
	phase float64
	rate  beep.SampleRate
}

// newTone creates an endless sine voice at the given frequency
func newTone(freq float64, rate beep.SampleRate) *tone {
	return &tone{freq: freq, rate: rate}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		val := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = val
		samples[i][1] = val

		// Advance phase
		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }
