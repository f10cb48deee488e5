package image

// Limits bounds what an uploaded cover image may look like.
type Limits struct {
	MaxFileSize    int64
	MaxWidth       int
	MaxHeight      int
	MaxPixels      int64
	AllowedFormats []string
	ThumbnailWidth int
}

// DefaultLimits returns the bounds applied when the caller provides none.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:    5 * 1024 * 1024,
		MaxWidth:       4096,
		MaxHeight:      4096,
		MaxPixels:      16 * 1024 * 1024,
		AllowedFormats: []string{"jpeg", "jpg", "png", "gif", "webp"},
		ThumbnailWidth: 320,
	}
}

// ValidationResult captures the outcome of security validation.
type ValidationResult struct {
	IsValid      bool
	Format       string
	Width        int
	Height       int
	FileSize     int64
	Error        error
	SecurityRisk string
}
