package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/taalam/internal/app"
	"github.com/ayusman/taalam/internal/engine"
	"github.com/ayusman/taalam/internal/server"
	"github.com/ayusman/taalam/internal/store"
	"github.com/ayusman/taalam/internal/tray"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "HTTP listen address")
		cameraID = flag.Int("camera", 0, "camera device ID")
		preset   = flag.String("preset", "", "preset name to load")
		noTray   = flag.Bool("no-tray", false, "run without the system tray")
	)
	flag.Parse()

	fmt.Println("Taalam - Hand Instrument")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".taalam")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "taalam.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := seedScales(st); err != nil {
		log.Printf("Failed to seed scales: %v", err)
	}

	// Build and start the instrument
	a := app.New(app.Config{
		Store:      st,
		CameraID:   *cameraID,
		PresetName: *preset,
		Engine:     engine.DefaultConfig(),
	})

	if err := a.LoadPreset(); err != nil {
		log.Fatalf("Failed to load preset: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	// Configure and start the HTTP server
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Snapshots: a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		select {}
	}

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnOpenUI(func() {
		openBrowser("http://localhost" + *addr)
	})
	t.OnQuit(func() {})
	go watchMode(a, t)

	// Blocks until quit is selected from the tray menu.
	t.Run()
}

// seedScales inserts the built-in scales into the database so the UI can
// list them. Existing rows are left alone.
func seedScales(st *store.Store) error {
	for _, s := range []engine.Scale{
		engine.ScalePentatonic, engine.ScaleMajor, engine.ScaleMinor, engine.ScaleDorian,
	} {
		if _, err := st.Scales().GetByName(s.Name); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		err := st.Scales().Create(&store.Scale{
			ID:        uuid.New().String(),
			Name:      s.Name,
			RootHz:    s.RootHz,
			Intervals: s.Intervals,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// watchMode mirrors the engine's play mode into the tray menu.
func watchMode(a *app.App, t *tray.Tray) {
	last := ""
	for {
		mode := a.Mode().String()
		if mode != last {
			last = mode
			t.SetMode(mode)
		}
		// Polling is fine here; the mode changes at human speed.
		time.Sleep(time.Second)
	}
}

// openBrowser opens url in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.taalam/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".taalam", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
