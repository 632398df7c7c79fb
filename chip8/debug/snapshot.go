package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-chip8/chip8/video"
)

// TakeSnapshot handles the snapshot hotkey for backends
func TakeSnapshot(frame *video.FrameBuffer, directory string) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if _, err := SaveFramePNGToDir(frame, "chip8_snapshot", directory); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameImage converts a framebuffer into an image, scaling every pixel
// to a scale x scale block.
func FrameImage(frame *video.FrameBuffer, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	w, h := int(frame.Width()), int(frame.Height())
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))

	for i, pixel := range frame.ToSlice() {
		c := colorToRGBA(video.Color(pixel))
		x, y := (i%w)*scale, (i/w)*scale
		for dy := 0; dy < scale; dy++ {
			for dx := 0; dx < scale; dx++ {
				img.SetRGBA(x+dx, y+dy, c)
			}
		}
	}

	return img
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory and returns the file path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	img := FrameImage(frame, 1)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", frame.Width(), frame.Height()), "format", "PNG")
	return filePath, nil
}

func colorToRGBA(c video.Color) color.RGBA {
	return color.RGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(c >> 24),
	}
}
