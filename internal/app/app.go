// Package app wires the capture, detection, engine and audio pieces of
// the Taalam instrument into one running pipeline.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/taalam/internal/audio"
	"github.com/ayusman/taalam/internal/capture"
	"github.com/ayusman/taalam/internal/detector"
	"github.com/ayusman/taalam/internal/engine"
	"github.com/ayusman/taalam/internal/hand"
	"github.com/ayusman/taalam/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the capture rate while nobody is in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the capture rate while hands are being tracked.
	ActiveFPS = 30
	// IdleTimeout is how long hands must stay absent with no motion
	// before the capture rate drops back to idle.
	IdleTimeout = 5 * time.Second
	// TickRate is the engine update rate. It runs faster than capture so
	// particles and ramps stay smooth between detector results.
	TickRate = 60
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	PresetName   string
	Engine       engine.Config
}

// App is the main application: it owns the camera, the hand detector,
// the audio engine and the instrument core, and runs the two pipeline
// goroutines that connect them.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	audio    *audio.Engine
	engine   *engine.Engine

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// latest is the most recent detector result. The sensor goroutine
	// overwrites it; the engine tick consumes whatever is newest.
	latest struct {
		sync.Mutex
		hands []detector.HandLandmarks
		seq   uint64
	}

	// snap is the most recent engine snapshot for render clients.
	snap struct {
		sync.RWMutex
		value engine.Snapshot
		ok    bool
	}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config: config,
		camera: capture.NewCamera(config.CameraID),
		motion: capture.NewMotionDetector(motionThreshold),
		audio:  audio.NewEngine(),
	}
	a.engine = engine.New(config.Engine, a.audio)

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables hand sensing. While disabled the engine
// keeps ticking so particles decay and the voice fades out naturally.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether hand sensing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// LoadPreset loads the configured preset from the database into the
// engine, falling back to the stock layout when nothing is stored.
func (a *App) LoadPreset() error {
	if a.config.Store == nil || a.config.PresetName == "" {
		a.engine.DefaultLayout()
		return nil
	}

	preset, err := a.config.Store.Presets().GetByName(a.config.PresetName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("Preset %q not found, using default layout", a.config.PresetName)
			a.engine.DefaultLayout()
			return nil
		}
		return err
	}

	for _, k := range preset.Knobs {
		a.engine.AddKnob(&engine.Knob{
			ID:       k.KnobID,
			Label:    k.Label,
			X:        k.X,
			Y:        k.Y,
			Radius:   k.Radius,
			Param:    audio.Param(k.Param),
			ParamMin: k.ParamMin,
			ParamMax: k.ParamMax,
			Value:    k.Value,
		})
	}
	for _, p := range preset.Pads {
		a.engine.AddPad(&engine.Pad{
			ID:     p.PadID,
			Label:  p.Label,
			X:      p.X,
			Y:      p.Y,
			Radius: p.Radius,
			Finger: hand.FingerIndex(p.Finger),
			Sound:  audio.Sound(p.Sound),
		})
	}

	if err := a.applyScale(preset.ScaleName); err != nil {
		return err
	}

	log.Printf("Loaded preset %q (%d knobs, %d pads, scale %s)",
		preset.Name, len(preset.Knobs), len(preset.Pads), preset.ScaleName)
	return nil
}

// applyScale resolves a scale name against the database first and the
// built-in scales second.
func (a *App) applyScale(name string) error {
	if a.config.Store != nil {
		sc, err := a.config.Store.Scales().GetByName(name)
		if err == nil {
			a.engine.SetScale(engine.Scale{
				Name:      sc.Name,
				RootHz:    sc.RootHz,
				Intervals: sc.Intervals,
			})
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	if sc, ok := engine.ScaleByName(name); ok {
		a.engine.SetScale(sc)
		return nil
	}

	log.Printf("Unknown scale %q, keeping current scale", name)
	return nil
}

// Start opens the camera and audio output and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	// Audio failure is not fatal; the instrument keeps running silent.
	if err := a.audio.Initialize(); err != nil {
		log.Printf("Audio init failed: %v", err)
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(2)
	go a.runSensing()
	go a.runEngine()

	log.Println("Instrument pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	a.mu.RLock()
	d := a.detector
	a.mu.RUnlock()
	if d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.audio.Close()

	log.Println("Instrument pipeline stopped")
}

// Snapshot returns the most recent engine snapshot.
func (a *App) Snapshot() (engine.Snapshot, bool) {
	a.snap.RLock()
	defer a.snap.RUnlock()
	return a.snap.value, a.snap.ok
}

// Mode returns the engine's active play mode.
func (a *App) Mode() engine.Mode {
	a.snap.RLock()
	defer a.snap.RUnlock()
	if !a.snap.ok {
		return engine.ModeRibbons
	}
	// Snapshot stores the mode name; resolve it back to the enum.
	for _, m := range []engine.Mode{engine.ModeRibbons, engine.ModeTheremin, engine.ModePads} {
		if m.String() == a.snap.value.Mode {
			return m
		}
	}
	return engine.ModeRibbons
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Engine returns the instrument core.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Audio returns the audio engine.
func (a *App) Audio() *audio.Engine {
	return a.audio
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
