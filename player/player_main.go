package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-stream-overlay/config"
	"github.com/tnqbao/gau-stream-overlay/player/session"
	"github.com/tnqbao/gau-stream-overlay/player/surface"
	"github.com/tnqbao/gau-stream-overlay/provider"
)

// Headless player: loads the overlay collection once and prints the computed
// layout for the configured stream frame. Useful for checking what a browser
// client would draw without running one.
func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()

	overlayService := provider.NewOverlayServiceProvider(cfg.EnvConfig)
	store := session.NewStore(overlayService)

	if err := store.Load(); err != nil {
		log.Fatalf("Failed to load overlays: %v", err)
	}

	frame := surface.Frame{
		Width:  cfg.EnvConfig.Stream.FrameWidth,
		Height: cfg.EnvConfig.Stream.FrameHeight,
	}

	log.Printf("Stream source: %s", cfg.EnvConfig.Stream.SourceURL)
	log.Printf("Frame: %.0fx%.0f", frame.Width, frame.Height)

	boxes := surface.Render(frame, store.Overlays())
	if len(boxes) == 0 {
		log.Println("No overlays to render")
		return
	}

	for _, box := range boxes {
		log.Printf(
			"overlay %q at (%.1f, %.1f) %gx%g font=%g color=%s background=%s",
			box.Text, box.Left, box.Top, box.Width, box.Height,
			box.FontSize, box.TextColor, box.Background,
		)
	}
}
