package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-hypercube/internal/config"
	"github.com/coreman2200/funtimes-hypercube/internal/engine"
	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
	"github.com/coreman2200/funtimes-hypercube/internal/gpu/ebitengpu"
	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/preset"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
	"github.com/coreman2200/funtimes-hypercube/internal/ws"
)

// wheel deltas arrive in small notch units; rescale toward the engine's
// scroll normalization
const wheelUnits = 10.0

type fileAction struct {
	path string
	save bool
	err  error
}

type app struct {
	coord  *engine.Coordinator
	gctx   *ebitengpu.Context
	bcast  *ws.State
	schema param.Schema

	w, h     int
	last     time.Time
	haveLast bool

	families []string
	projIdx  int
	kinds    []string

	liveTouches map[ebiten.TouchID]bool
	touchIDs    []ebiten.TouchID

	files  chan fileAction
	dialog bool
}

func (a *app) Update() error {
	in := a.coord.Input()

	if _, dy := ebiten.Wheel(); dy != 0 {
		in.Scroll(dy * wheelUnits)
	}

	cx, cy := ebiten.CursorPosition()
	if a.w > 0 && a.h > 0 {
		in.PointerMove(float64(cx)/float64(a.w), float64(cy)/float64(a.h))
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Press()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		in.Release()
	}

	a.forwardTouches(in)
	a.handleKeys()
	a.drainDialogs()
	return nil
}

func (a *app) forwardTouches(in *interaction.Engine) {
	a.touchIDs = inpututil.AppendJustPressedTouchIDs(a.touchIDs[:0])
	for _, id := range a.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.TouchStart(float64(x)/float64(max(a.w, 1)), float64(y)/float64(max(a.h, 1)))
		a.liveTouches[id] = true
	}
	a.touchIDs = ebiten.AppendTouchIDs(a.touchIDs[:0])
	for _, id := range a.touchIDs {
		if a.liveTouches[id] {
			x, y := ebiten.TouchPosition(id)
			in.TouchMove(float64(x)/float64(max(a.w, 1)), float64(y)/float64(max(a.h, 1)))
		}
	}
	a.touchIDs = inpututil.AppendJustReleasedTouchIDs(a.touchIDs[:0])
	for _, id := range a.touchIDs {
		if a.liveTouches[id] {
			delete(a.liveTouches, id)
			in.TouchEnd()
		}
	}
}

func (a *app) handleKeys() {
	digits := []ebiten.Key{
		ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
		ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8,
	}
	for i, k := range digits {
		if inpututil.IsKeyJustPressed(k) && i < len(a.families) {
			if err := a.coord.SetGeometry(a.families[i], geometry.DefaultSubParams()); err != nil {
				log.Warn().Err(err).Msg("geometry switch")
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.projIdx = (a.projIdx + 1) % len(a.kinds)
		if err := a.coord.SetProjection(projection.Kind(a.kinds[a.projIdx]), nil); err != nil {
			log.Warn().Err(err).Msg("projection switch")
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyO) && !a.dialog {
		a.dialog = true
		go func() {
			path, err := zenity.SelectFile(
				zenity.Title("Load preset"),
				zenity.FileFilters{{Name: "Presets", Patterns: []string{"*.json"}}},
			)
			a.files <- fileAction{path: path, err: err}
		}()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && !a.dialog {
		a.dialog = true
		go func() {
			path, err := zenity.SelectFileSave(
				zenity.Title("Save preset"),
				zenity.ConfirmOverwrite(),
				zenity.Filename("preset.json"),
				zenity.FileFilters{{Name: "Presets", Patterns: []string{"*.json"}}},
			)
			a.files <- fileAction{path: path, save: true, err: err}
		}()
	}
}

func (a *app) drainDialogs() {
	select {
	case f := <-a.files:
		a.dialog = false
		if f.err != nil || f.path == "" {
			return
		}
		if f.save {
			rec := a.coord.CapturePreset(trimName(f.path))
			if err := preset.Save(f.path, rec, a.schema); err != nil {
				log.Error().Err(err).Str("path", f.path).Msg("preset save")
			}
			return
		}
		rec, err := preset.Load(f.path, a.schema)
		if err != nil {
			log.Error().Err(err).Str("path", f.path).Msg("preset load")
			return
		}
		if err := a.coord.LoadPreset(rec, 1.0); err != nil {
			log.Error().Err(err).Msg("preset apply")
		}
	default:
	}
}

func trimName(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			base = path[i+1:]
			break
		}
	}
	if len(base) > 5 && base[len(base)-5:] == ".json" {
		base = base[:len(base)-5]
	}
	return base
}

func (a *app) Draw(screen *ebiten.Image) {
	a.gctx.BeginFrame(screen)

	now := time.Now()
	dt := 1.0 / 60.0
	if a.haveLast {
		dt = now.Sub(a.last).Seconds()
	}
	a.last, a.haveLast = now, true

	a.coord.Tick(dt)
	if a.bcast != nil {
		a.bcast.PushFrame()
	}
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.w, a.h = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func main() {
	var (
		width      = flag.Int("width", 0, "window width (0 = config)")
		height     = flag.Int("height", 0, "window height (0 = config)")
		fps        = flag.Int("fps", 0, "target ticks per second (0 = config)")
		addr       = flag.String("addr", "", "state broadcaster address (empty = config)")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		presetPath = flag.String("preset", "", "preset to load at startup")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if *addr != "" {
		cfg.WSAddr = *addr
	}

	gctx := ebitengpu.New(cfg.Width, cfg.Height)
	it := cfg.InteractionTuning()
	mod := cfg.ModulationStrengths()
	pt := cfg.ProjectionTuning()
	ct := cfg.ChromaTuning()

	coord, err := engine.New(engine.Options{
		Ctx:               gctx,
		Sched:             interaction.TimerScheduler{},
		Log:               log.Logger,
		InteractionTuning: &it,
		Modulation:        &mod,
		ProjectionTuning:  &pt,
		ChromaTuning:      &ct,
		Ease:              cfg.Ease,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("engine init")
	}
	defer coord.Close()

	schema := param.DefaultSchema()
	if *presetPath != "" {
		rec, err := preset.Load(*presetPath, schema)
		if err != nil {
			log.Fatal().Err(err).Str("path", *presetPath).Msg("startup preset")
		}
		if err := coord.LoadPreset(rec, 0); err != nil {
			log.Fatal().Err(err).Msg("startup preset apply")
		}
	}

	var bcast *ws.State
	if cfg.WSAddr != "" {
		bcast = ws.NewState(coord, 30)
		coord.SetTokenSink(bcast)
		coord.SetReporter(bcast)
		go func() {
			log.Info().Str("addr", cfg.WSAddr).Msg("state broadcaster listening")
			if err := bcast.Serve(cfg.WSAddr); err != nil {
				log.Error().Err(err).Msg("broadcaster stopped")
			}
		}()
	}

	a := &app{
		coord:       coord,
		gctx:        gctx,
		bcast:       bcast,
		schema:      schema,
		w:           cfg.Width,
		h:           cfg.Height,
		families:    geometry.Families(),
		kinds:       projection.Kinds(),
		liveTouches: map[ebiten.TouchID]bool{},
		files:       make(chan fileAction, 1),
	}
	for i, k := range a.kinds {
		if k == string(coord.Projection()) {
			a.projIdx = i
		}
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(fmt.Sprintf("hypercube (%s)", coord.Projection()))
	ebiten.SetTPS(cfg.FPS)
	if err := ebiten.RunGame(a); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}
