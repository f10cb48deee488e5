package image

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Logger captures the logging behaviour the validator needs.
type Logger interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
}

// Validator performs layered checks against incoming cover image payloads.
type Validator struct {
	limits Limits
	logger Logger
}

func NewValidator(limits Limits, logger Logger) *Validator {
	if limits.MaxFileSize <= 0 {
		limits = DefaultLimits()
	}
	return &Validator{limits: limits, logger: logger}
}

var imageSignatures = map[string][]byte{
	"jpeg": {0xFF, 0xD8},
	"jpg":  {0xFF, 0xD8},
	"png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"gif":  {0x47, 0x49, 0x46, 0x38},
	"webp": {0x52, 0x49, 0x46, 0x46},
}

// ValidateBytes checks size, format and dimension bounds on the raw payload.
func (v *Validator) ValidateBytes(raw []byte, declaredFormat string) ValidationResult {
	result := ValidationResult{IsValid: false}

	if len(raw) == 0 {
		result.Error = fmt.Errorf("empty image payload")
		return result
	}

	if int64(len(raw)) > v.limits.MaxFileSize {
		result.Error = fmt.Errorf(
			"file size exceeds limit: %d bytes (max %d bytes)",
			len(raw), v.limits.MaxFileSize,
		)
		result.SecurityRisk = "file too large"
		v.logger.Warn("oversized cover image: size=%d max=%d format=%s",
			len(raw), v.limits.MaxFileSize, declaredFormat)
		return result
	}

	if declaredFormat != "" && !v.isFormatAllowed(declaredFormat) {
		result.Error = fmt.Errorf("unsupported format: %s", declaredFormat)
		result.SecurityRisk = "unapproved format"
		return result
	}

	decodeResult := v.validateDecoding(raw)
	if !decodeResult.IsValid {
		if declaredFormat != "" && !v.validateFileSignature(raw, declaredFormat) {
			header := fmt.Sprintf("%x", raw[:min(len(raw), 16)])
			v.logger.Warn("file signature mismatch: declared=%s header=%s", declaredFormat, header)
		}
		return decodeResult
	}

	if !v.isFormatAllowed(decodeResult.Format) {
		decodeResult.IsValid = false
		decodeResult.Error = fmt.Errorf("unsupported format: %s", decodeResult.Format)
		decodeResult.SecurityRisk = "unapproved format"
		return decodeResult
	}

	decodeResult.FileSize = int64(len(raw))
	return decodeResult
}

func (v *Validator) isFormatAllowed(format string) bool {
	if format == "" || len(v.limits.AllowedFormats) == 0 {
		return true
	}
	format = strings.ToLower(format)
	for _, allowed := range v.limits.AllowedFormats {
		if strings.ToLower(allowed) == format {
			return true
		}
	}
	return false
}

func (v *Validator) validateFileSignature(raw []byte, format string) bool {
	signature, ok := imageSignatures[strings.ToLower(format)]
	if !ok || len(signature) == 0 {
		return true
	}
	if len(raw) < len(signature) {
		return false
	}
	return bytes.Equal(signature, raw[:len(signature)])
}

func (v *Validator) validateDecoding(raw []byte) ValidationResult {
	result := ValidationResult{}

	config, actualFormat, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		result.Error = fmt.Errorf("decode image config: %w", err)
		result.SecurityRisk = "corrupted image data"
		return result
	}
	result.Format = actualFormat

	if config.Width > v.limits.MaxWidth || config.Height > v.limits.MaxHeight {
		result.Error = fmt.Errorf("dimensions exceed limit: %dx%d (max %dx%d)",
			config.Width, config.Height, v.limits.MaxWidth, v.limits.MaxHeight)
		result.SecurityRisk = "dimensions too large"
		return result
	}

	totalPixels := int64(config.Width) * int64(config.Height)
	if totalPixels > v.limits.MaxPixels {
		result.Error = fmt.Errorf("pixel count exceeds limit: %d (max %d)",
			totalPixels, v.limits.MaxPixels)
		result.SecurityRisk = "pixel count too high"
		return result
	}

	result.IsValid = true
	result.Width = config.Width
	result.Height = config.Height

	v.logger.Debug("cover image validated: format=%s width=%d height=%d",
		result.Format, result.Width, result.Height)
	return result
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
