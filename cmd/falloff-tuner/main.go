// Command falloff-tuner is an interactive editor and visualizer for
// falloff configuration: it plots the selected response curve, shows
// live distance/gain readouts for a simulated participant count, and
// enforces the instance ceilings the runtime engine deliberately
// leaves unbounded.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/falloff/config"
	"github.com/lixenwraith/falloff/curve"
)

const (
	plotLeft   = 2
	plotTop    = 3
	plotWidth  = 61
	plotHeight = 16
)

type tuner struct {
	screen tcell.Screen
	cfg    *config.Config
	count  int // Simulated participant count
}

func newTuner() (*tuner, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		screen.Fini()
		return nil, err
	}

	return &tuner{
		screen: screen,
		cfg:    cfg,
		count:  (cfg.RangeMin + cfg.RangeMax) / 2,
	}, nil
}

func (t *tuner) run() {
	for {
		t.draw()

		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if !t.handleKey(ev) {
				return
			}
		}
	}
}

// handleKey applies one edit. Returns false on quit.
func (t *tuner) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'c':
		t.cfg.CurveName = curve.Kind((int(t.cfg.Curve) + 1) % len(curve.Kinds())).String()
	case 'C':
		t.cfg.CurveName = curve.Kind((int(t.cfg.Curve) + len(curve.Kinds()) - 1) % len(curve.Kinds())).String()
	case 'm':
		t.cfg.RangeMin--
	case 'M':
		t.cfg.RangeMin++
	case 'x':
		t.cfg.RangeMax--
	case 'X':
		t.cfg.RangeMax++
	case 'j':
		t.count--
	case 'k':
		t.count++
	case 'e':
		t.cfg.Extended = !t.cfg.Extended
	case 'r':
		t.cfg = config.Default()
	}

	// Ceiling and ordering repairs live here, not in the engine
	t.cfg.Normalize()

	if t.count < 0 {
		t.count = 0
	}
	if t.count > t.cfg.Ceiling() {
		t.count = t.cfg.Ceiling()
	}
	return true
}

func (t *tuner) draw() {
	t.screen.Clear()

	styleText := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCurve := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleMark := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	t.drawText(plotLeft, 0, styleText, "falloff tuner")
	t.drawText(plotLeft, 1, styleDim, "c/C curve  m/M min  x/X max  j/k count  e extended  r reset  q quit")

	t.drawPlot(styleCurve, styleDim, styleMark)
	t.drawReadouts(styleText, styleDim)

	t.screen.Show()
}

// drawPlot renders shape(t) over [0,1] in an ASCII frame
func (t *tuner) drawPlot(styleCurve, styleAxis, styleMark tcell.Style) {
	// Frame
	for x := 0; x <= plotWidth; x++ {
		t.screen.SetContent(plotLeft+x, plotTop+plotHeight, '-', nil, styleAxis)
	}
	for y := 0; y <= plotHeight; y++ {
		t.screen.SetContent(plotLeft-1, plotTop+y, '|', nil, styleAxis)
	}

	// Curve
	for x := 0; x <= plotWidth; x++ {
		tx := float64(x) / float64(plotWidth)
		ty := curve.Shape(tx, t.cfg.Curve)
		y := plotHeight - int(ty*float64(plotHeight)+0.5)
		t.screen.SetContent(plotLeft+x, plotTop+y, '*', nil, styleCurve)
	}

	// Marker at the simulated count's progress
	progress := curve.Progress(t.count, t.cfg.Range(), t.cfg.Curve)
	raw := 0.0
	if t.count > t.cfg.RangeMin {
		raw = float64(t.count-t.cfg.RangeMin) / float64(t.cfg.RangeMax-t.cfg.RangeMin)
		if raw > 1 {
			raw = 1
		}
	}
	mx := plotLeft + int(raw*float64(plotWidth)+0.5)
	my := plotTop + plotHeight - int(progress*float64(plotHeight)+0.5)
	t.screen.SetContent(mx, my, 'o', nil, styleMark)
}

func (t *tuner) drawReadouts(styleText, styleDim tcell.Style) {
	y := plotTop + plotHeight + 2

	progress := curve.Progress(t.count, t.cfg.Range(), t.cfg.Curve)
	distance := curve.Lerp(t.cfg.Distance(), progress)
	gain := curve.Lerp(t.cfg.Gain(), progress)

	mode := "standard"
	if t.cfg.Extended {
		mode = "extended"
	}

	t.drawText(plotLeft, y, styleText,
		fmt.Sprintf("curve: %-13s range: [%d..%d]  instance: %s (ceiling %d)",
			t.cfg.Curve, t.cfg.RangeMin, t.cfg.RangeMax, mode, t.cfg.Ceiling()))
	t.drawText(plotLeft, y+1, styleText,
		fmt.Sprintf("count: %-3d  t: %.4f", t.count, progress))
	t.drawText(plotLeft, y+2, styleText,
		fmt.Sprintf("distance: %5.2f m   (%.0f -> %.0f)", distance, t.cfg.DistanceStart, t.cfg.DistanceEnd))
	t.drawText(plotLeft, y+3, styleText,
		fmt.Sprintf("gain:     %5.2f dB  (%.0f -> %.0f)", gain, t.cfg.GainStart, t.cfg.GainEnd))
	t.drawText(plotLeft, y+5, styleDim,
		"outside [min,max] the outputs saturate, they never extrapolate")
}

func (t *tuner) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func main() {
	t, err := newTuner()
	if err != nil {
		log.Printf("tuner init failed: %v", err)
		os.Exit(1)
	}
	defer t.screen.Fini()

	t.run()
}
