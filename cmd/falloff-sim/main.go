// Command falloff-sim runs the falloff loop against a churning
// simulated roster: participants join and leave at random, the mixer
// re-evaluates, and the computed distance/gain values are logged or,
// with -audio, rendered as per-participant tones.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/falloff/audio"
	"github.com/lixenwraith/falloff/config"
	"github.com/lixenwraith/falloff/events"
	"github.com/lixenwraith/falloff/mixer"
	"github.com/lixenwraith/falloff/roster"
	"github.com/lixenwraith/falloff/service"
)

func main() {
	useAudio := flag.Bool("audio", false, "render participants as tones instead of logging")
	churn := flag.Duration("churn", 2*time.Second, "mean time between roster changes")
	peak := flag.Int("peak", 30, "maximum simulated participant count")
	seed := flag.Int64("seed", 0, "rng seed, 0 uses current time")
	flag.Parse()

	if *peak < 1 {
		*peak = 1
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(1)
	}

	queue := events.NewQueue()
	r := roster.New(queue)

	var applier mixer.Applier = mixer.LogApplier{}
	var services []service.Service

	if *useAudio {
		beepApplier := audio.NewBeepApplier()
		beepApplier.RefDistance = cfg.DistanceStart
		applier = beepApplier
		services = append(services, beepApplier)
	}

	m := mixer.New(cfg, r, queue, applier, nil)
	services = append(services, m)

	for _, s := range services {
		if err := s.Init(); err != nil {
			log.Printf("%s init: %v", s.Name(), err)
			os.Exit(1)
		}
	}
	for _, s := range services {
		if err := s.Start(); err != nil {
			log.Printf("%s start: %v", s.Name(), err)
			os.Exit(1)
		}
	}
	defer func() {
		for i := len(services) - 1; i >= 0; i-- {
			services[i].Stop()
		}
	}()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	log.Printf("simulating: range [%d..%d], curve %s, peak %d, seed %d",
		cfg.RangeMin, cfg.RangeMax, cfg.Curve, *peak, *seed)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	next := 0
	ticker := time.NewTicker(*churn / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			log.Print("shutting down")
			return
		case <-ticker.C:
			// Bias toward joining while under peak, leaving above it
			joining := rng.Intn(*peak) >= r.Count()
			if joining {
				id := fmt.Sprintf("sim-%03d", next)
				next++
				r.Join(id)
				log.Printf("join  %s (count %d)", id, r.Count())
			} else if ids := r.Participants(); len(ids) > 0 {
				id := ids[rng.Intn(len(ids))]
				r.Leave(id)
				if a, ok := applier.(*audio.BeepApplier); ok {
					a.Remove(id)
				}
				log.Printf("leave %s (count %d)", id, r.Count())
			}

			if vals, ok := m.Last(); ok {
				log.Printf("state count=%d t=%.4f distance=%.2fm gain=%.2fdB",
					vals.Count, vals.Progress, vals.Distance, vals.Gain)
			}
		}
	}
}
