package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical scan defaults file.
const DefaultConfigPath = "config/scan.defaults.json"

// MinSweepStepPx is the smallest accepted sweep step. Finer steps add no
// information at view resolution and can stall the sweep in floating point.
const MinSweepStepPx = 0.001

// ScanConfig holds the tunable parameters of the height scanner. Every
// field is optional; Get* accessors fall back to built-in defaults so a
// partial file is safe.
type ScanConfig struct {
	// Phase 1: closest-surface sweep
	SweepFraction *float64 `json:"sweep_fraction,omitempty"` // half-width of the sweep as a fraction of view width
	SweepStepPx   *float64 `json:"sweep_step_px,omitempty"`

	// Phase 2: silhouette walk, in world units
	WalkStep   *float64 `json:"walk_step,omitempty"`
	HalfWidth  *float64 `json:"half_width,omitempty"`
	HalfHeight *float64 `json:"half_height,omitempty"`
	DepthBand  *float64 `json:"depth_band,omitempty"`

	// Safety net for misbehaving ray casters
	MaxProbes   *int    `json:"max_probes,omitempty"`
	MaxDuration *string `json:"max_duration,omitempty"` // duration string like "2s"; "0" disables
}

// ScanParams is a fully resolved ScanConfig.
type ScanParams struct {
	SweepFraction float64
	SweepStepPx   float64
	WalkStep      float64
	HalfWidth     float64
	HalfHeight    float64
	DepthBand     float64
	MaxProbes     int
	MaxDuration   time.Duration
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyScanConfig returns a ScanConfig with all fields set to nil.
func EmptyScanConfig() *ScanConfig {
	return &ScanConfig{}
}

// DefaultScanConfig returns a ScanConfig with every field populated from
// the built-in defaults.
func DefaultScanConfig() *ScanConfig {
	d := DefaultScanParams()
	return &ScanConfig{
		SweepFraction: ptrFloat64(d.SweepFraction),
		SweepStepPx:   ptrFloat64(d.SweepStepPx),
		WalkStep:      ptrFloat64(d.WalkStep),
		HalfWidth:     ptrFloat64(d.HalfWidth),
		HalfHeight:    ptrFloat64(d.HalfHeight),
		DepthBand:     ptrFloat64(d.DepthBand),
		MaxProbes:     ptrInt(d.MaxProbes),
		MaxDuration:   ptrString(d.MaxDuration.String()),
	}
}

// DefaultScanParams returns the built-in scan parameters.
func DefaultScanParams() ScanParams {
	return ScanParams{
		SweepFraction: 1.0 / 6.0,
		SweepStepPx:   1,
		WalkStep:      0.03,
		HalfWidth:     0.5,
		HalfHeight:    2.0,
		DepthBand:     0.2,
		MaxProbes:     20000,
		MaxDuration:   2 * time.Second,
	}
}

// LoadScanConfig loads a ScanConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadScanConfig(path string) (*ScanConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyScanConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ScanConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadScanConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ScanConfig) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"sweep_fraction", c.SweepFraction},
		{"sweep_step_px", c.SweepStepPx},
		{"walk_step", c.WalkStep},
		{"half_width", c.HalfWidth},
		{"half_height", c.HalfHeight},
		{"depth_band", c.DepthBand},
	}
	for _, p := range positive {
		if p.v != nil && !(*p.v > 0) {
			return fmt.Errorf("%s must be positive, got %f", p.name, *p.v)
		}
	}

	if c.SweepStepPx != nil && *c.SweepStepPx < MinSweepStepPx {
		return fmt.Errorf("sweep_step_px must be at least %g, got %g", MinSweepStepPx, *c.SweepStepPx)
	}

	if c.SweepFraction != nil && *c.SweepFraction > 0.5 {
		return fmt.Errorf("sweep_fraction must be at most 0.5, got %f", *c.SweepFraction)
	}

	if c.MaxProbes != nil && *c.MaxProbes < 0 {
		return fmt.Errorf("max_probes must be non-negative, got %d", *c.MaxProbes)
	}

	if c.MaxDuration != nil && *c.MaxDuration != "" {
		d, err := time.ParseDuration(*c.MaxDuration)
		if err != nil {
			return fmt.Errorf("invalid max_duration '%s': %w", *c.MaxDuration, err)
		}
		if d < 0 {
			return fmt.Errorf("max_duration must be non-negative, got %s", d)
		}
	}

	return nil
}

// GetSweepFraction returns the sweep_fraction value or the default.
func (c *ScanConfig) GetSweepFraction() float64 {
	if c.SweepFraction == nil {
		return DefaultScanParams().SweepFraction
	}
	return *c.SweepFraction
}

// GetSweepStepPx returns the sweep_step_px value or the default.
func (c *ScanConfig) GetSweepStepPx() float64 {
	if c.SweepStepPx == nil {
		return DefaultScanParams().SweepStepPx
	}
	return *c.SweepStepPx
}

// GetWalkStep returns the walk_step value or the default.
func (c *ScanConfig) GetWalkStep() float64 {
	if c.WalkStep == nil {
		return DefaultScanParams().WalkStep
	}
	return *c.WalkStep
}

// GetHalfWidth returns the half_width value or the default.
func (c *ScanConfig) GetHalfWidth() float64 {
	if c.HalfWidth == nil {
		return DefaultScanParams().HalfWidth
	}
	return *c.HalfWidth
}

// GetHalfHeight returns the half_height value or the default.
func (c *ScanConfig) GetHalfHeight() float64 {
	if c.HalfHeight == nil {
		return DefaultScanParams().HalfHeight
	}
	return *c.HalfHeight
}

// GetDepthBand returns the depth_band value or the default.
func (c *ScanConfig) GetDepthBand() float64 {
	if c.DepthBand == nil {
		return DefaultScanParams().DepthBand
	}
	return *c.DepthBand
}

// GetMaxProbes returns the max_probes value or the default. Zero disables
// the cap.
func (c *ScanConfig) GetMaxProbes() int {
	if c.MaxProbes == nil {
		return DefaultScanParams().MaxProbes
	}
	return *c.MaxProbes
}

// GetMaxDuration parses and returns MaxDuration. Zero disables the budget.
func (c *ScanConfig) GetMaxDuration() time.Duration {
	if c.MaxDuration == nil || *c.MaxDuration == "" {
		return DefaultScanParams().MaxDuration
	}
	d, err := time.ParseDuration(*c.MaxDuration)
	if err != nil {
		return DefaultScanParams().MaxDuration // default on parse error
	}
	return d
}

// ScanParams resolves every field.
func (c *ScanConfig) ScanParams() ScanParams {
	return ScanParams{
		SweepFraction: c.GetSweepFraction(),
		SweepStepPx:   c.GetSweepStepPx(),
		WalkStep:      c.GetWalkStep(),
		HalfWidth:     c.GetHalfWidth(),
		HalfHeight:    c.GetHalfHeight(),
		DepthBand:     c.GetDepthBand(),
		MaxProbes:     c.GetMaxProbes(),
		MaxDuration:   c.GetMaxDuration(),
	}
}
