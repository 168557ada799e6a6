// vizsim runs the engine headless and deterministic: a fake GPU context, a
// manual scheduler, and a scripted interaction timeline. Useful for checking
// signal/parameter behavior without a window.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-hypercube/internal/engine"
	"github.com/coreman2200/funtimes-hypercube/internal/gpu/fake"
	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/preset"
)

func main() {
	var (
		presetPath = flag.String("preset", "", "preset to transition to mid-run")
		seconds    = flag.Float64("seconds", 8, "simulated run length")
		fps        = flag.Int("fps", 60, "simulated frames per second")
		logEvery   = flag.Float64("log-every", 0.5, "seconds between frame summaries")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	ctx := fake.New(640, 480)
	sched := interaction.NewManualScheduler()
	coord, err := engine.New(engine.Options{Ctx: ctx, Sched: sched, Log: log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("engine init")
	}
	defer coord.Close()

	coord.OnChange(func(ev engine.Event) {
		log.Info().Str("kind", string(ev.Kind)).Str("geometry", ev.Geometry).
			Str("projection", ev.Projection).Str("key", ev.Key).
			Str("preset", ev.Preset).Msg("state change")
	})

	var rec *preset.Record
	if *presetPath != "" {
		r, err := preset.Load(*presetPath, param.DefaultSchema())
		if err != nil {
			log.Fatal().Err(err).Str("path", *presetPath).Msg("preset load")
		}
		rec = &r
	}

	dt := 1.0 / float64(*fps)
	frames := int(*seconds * float64(*fps))
	logStride := int(*logEvery * float64(*fps))
	if logStride < 1 {
		logStride = 1
	}
	in := coord.Input()

	var t float64
	presetFired := false
	for f := 0; f < frames; f++ {
		t = float64(f) * dt

		// scripted timeline: a scroll burst, then a press-and-hold, then a
		// pointer sweep, then the optional preset transition
		switch {
		case t >= 1.0 && t < 1.2:
			in.Scroll(30)
		case t >= 2.0 && t < 2.02:
			in.Press()
		case t >= 3.5 && t < 3.52:
			in.Release()
		case t >= 4.0 && t < 5.0:
			in.PointerMove(t-4.0, 0.5)
		}
		if rec != nil && !presetFired && t >= 5.0 {
			presetFired = true
			if err := coord.LoadPreset(*rec, 1.0); err != nil {
				log.Error().Err(err).Msg("preset apply")
			}
		}

		coord.Tick(dt)
		sched.Advance(time.Duration(dt * float64(time.Second)))

		if f%logStride == 0 {
			eff := coord.EffectiveParameters()
			sig := coord.Signals()
			fam, _ := coord.Geometry()
			log.Info().
				Float64("t", t).
				Str("geometry", fam).
				Str("pattern", string(sig.Pattern)).
				Float64("morph", eff.Scalar("u_morphFactor", 0)).
				Float64("rotation", eff.Scalar("u_rotationSpeed", 0)).
				Float64("grid", eff.Scalar("u_gridDensity", 0)).
				Float64("bass", eff.Scalar("u_audioBass", 0)).
				Float64("mid", eff.Scalar("u_audioMid", 0)).
				Float64("high", eff.Scalar("u_audioHigh", 0)).
				Float64("decay", sig.Idle.Decay).
				Msg("frame")
		}
	}

	log.Info().
		Int("frames", frames).
		Int("draws", ctx.Draws).
		Int("live_meshes", ctx.LiveMeshes).
		Int("max_live_meshes", ctx.MaxLiveMeshes).
		Msg("done")
}
