package app

import (
	"log"
	"time"

	"github.com/ayusman/taalam/internal/detector"
)

// runSensing is the capture loop: read a frame, run the hand detector,
// publish the result. It owns the idle/active capture rate switch.
//
// The loop always publishes, including empty results, so the engine sees
// hands disappear. Only the newest result matters; if the engine ticks
// twice between detections it reuses the last one, and if detection
// outpaces a slow tick the older result is simply overwritten.
func (a *App) runSensing() {
	defer a.wg.Done()

	activeMode := false
	lastActivity := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	setActive := func(active bool) {
		if active == activeMode {
			return
		}
		activeMode = active
		fps := IdleFPS
		if active {
			fps = ActiveFPS
		} else {
			a.motion.Reset()
		}
		a.camera.SetFPS(fps)
		frameInterval = time.Second / time.Duration(fps)
		ticker.Reset(frameInterval)
		log.Printf("Capture switched to %d FPS", fps)
	}

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				// Publish absence so the engine releases the voice and
				// lets the particles die out.
				a.publish(nil)
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Motion gates the expensive landmark detector while idle.
			if !activeMode {
				moved, _ := a.motion.Detect(frame)
				if !moved {
					frame.Close()
					a.publish(nil)
					continue
				}
				setActive(true)
			}

			hands, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			a.publish(hands)

			if len(hands) > 0 {
				lastActivity = time.Now()
			} else if time.Since(lastActivity) > IdleTimeout {
				setActive(false)
			}
		}
	}
}

// publish stores the newest detector result for the engine tick.
func (a *App) publish(hands []detector.HandLandmarks) {
	a.latest.Lock()
	a.latest.hands = hands
	a.latest.seq++
	a.latest.Unlock()
}

// runEngine is the instrument tick loop. It runs at TickRate regardless
// of the capture rate, feeding the engine the newest detector result and
// publishing the snapshot it produces.
func (a *App) runEngine() {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case now := <-ticker.C:
			a.latest.Lock()
			hands := a.latest.hands
			a.latest.Unlock()

			snap := a.engine.Step(hands, now)

			a.snap.Lock()
			a.snap.value = snap
			a.snap.ok = true
			a.snap.Unlock()
		}
	}
}
