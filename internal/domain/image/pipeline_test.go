package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Warn(string, ...any)  {}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestPipelineProcess(t *testing.T) {
	pipeline, err := NewPipeline(Options{Logger: testLogger{}})
	if err != nil {
		t.Fatalf("NewPipeline error: %v", err)
	}

	raw := encodePNG(t, 800, 600)
	out, err := pipeline.Process(context.Background(), Input{
		Reader:         bytes.NewReader(raw),
		DeclaredFormat: "png",
	})
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if out.Format != "png" {
		t.Fatalf("expected png format, got %s", out.Format)
	}
	if len(out.Bytes) != len(raw) {
		t.Fatalf("payload changed size: %d != %d", len(out.Bytes), len(raw))
	}

	thumb, _, err := image.DecodeConfig(bytes.NewReader(out.Thumbnail))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if thumb.Width != 320 || thumb.Height != 240 {
		t.Fatalf("unexpected thumbnail size: %dx%d", thumb.Width, thumb.Height)
	}
}

func TestPipelineSmallImageNotUpscaled(t *testing.T) {
	pipeline, err := NewPipeline(Options{Logger: testLogger{}})
	if err != nil {
		t.Fatalf("NewPipeline error: %v", err)
	}

	raw := encodePNG(t, 100, 50)
	out, err := pipeline.Process(context.Background(), Input{Reader: bytes.NewReader(raw)})
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	thumb, _, err := image.DecodeConfig(bytes.NewReader(out.Thumbnail))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if thumb.Width != 100 || thumb.Height != 50 {
		t.Fatalf("expected 100x50 thumbnail, got %dx%d", thumb.Width, thumb.Height)
	}
}

func TestPipelineRejections(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxFileSize = 1024
	pipeline, err := NewPipeline(Options{Limits: limits, Logger: testLogger{}})
	if err != nil {
		t.Fatalf("NewPipeline error: %v", err)
	}
	ctx := context.Background()

	big := encodePNG(t, 200, 200)
	if _, err := pipeline.Process(ctx, Input{Reader: bytes.NewReader(big)}); err == nil {
		t.Fatal("expected oversized payload to be rejected")
	}

	if _, err := pipeline.Process(ctx, Input{Reader: bytes.NewReader([]byte("not an image"))}); err == nil {
		t.Fatal("expected garbage payload to be rejected")
	}

	if _, err := pipeline.Process(ctx, Input{Reader: nil}); err == nil {
		t.Fatal("expected missing reader to be rejected")
	}
}

func TestValidatorFormatGate(t *testing.T) {
	limits := DefaultLimits()
	limits.AllowedFormats = []string{"jpeg"}
	validator := NewValidator(limits, testLogger{})

	raw := encodePNG(t, 10, 10)
	result := validator.ValidateBytes(raw, "png")
	if result.IsValid {
		t.Fatal("expected png to be rejected when only jpeg is allowed")
	}

	result = validator.ValidateBytes(raw, "")
	if result.IsValid {
		t.Fatal("expected decoded png format to be rejected when only jpeg is allowed")
	}
}
