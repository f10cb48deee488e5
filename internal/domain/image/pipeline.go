package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	xdraw "golang.org/x/image/draw"
)

// Pipeline streams an uploaded cover through validation and produces the
// bytes to store plus a scaled thumbnail.
type Pipeline struct {
	validator *Validator
	logger    Logger
	limits    Limits
}

// Options configures the pipeline behaviour.
type Options struct {
	Limits Limits
	Logger Logger
}

// Input describes a streaming image payload.
type Input struct {
	Reader         io.Reader
	DeclaredFormat string
}

// Output contains the sanitised artefacts produced by the pipeline.
type Output struct {
	Bytes      []byte
	Thumbnail  []byte
	Format     string
	Validation ValidationResult
}

func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	limits := opts.Limits
	if limits.MaxFileSize <= 0 {
		limits = DefaultLimits()
	}
	return &Pipeline{
		validator: NewValidator(limits, opts.Logger),
		logger:    opts.Logger,
		limits:    limits,
	}, nil
}

// Process reads the payload, validates it and renders the thumbnail.
func (p *Pipeline) Process(ctx context.Context, input Input) (*Output, error) {
	if input.Reader == nil {
		return nil, fmt.Errorf("image reader is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limited := &io.LimitedReader{
		R: input.Reader,
		N: p.limits.MaxFileSize + 1,
	}
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("stream image bytes: %w", err)
	}
	if limited.N <= 0 {
		return nil, fmt.Errorf("image exceeds maximum size of %d bytes", p.limits.MaxFileSize)
	}

	validation := p.validator.ValidateBytes(raw, input.DeclaredFormat)
	if !validation.IsValid {
		if validation.Error != nil {
			return nil, validation.Error
		}
		return nil, fmt.Errorf("image validation failed")
	}

	thumbnail, err := p.renderThumbnail(raw, validation)
	if err != nil {
		return nil, fmt.Errorf("render thumbnail: %w", err)
	}

	return &Output{
		Bytes:      raw,
		Thumbnail:  thumbnail,
		Format:     validation.Format,
		Validation: validation,
	}, nil
}

func (p *Pipeline) renderThumbnail(raw []byte, validation ValidationResult) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	width := p.limits.ThumbnailWidth
	if width <= 0 {
		width = 320
	}
	if validation.Width <= width {
		width = validation.Width
	}
	height := validation.Height * width / validation.Width
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
