package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Section is one [[timeline.sections]] entry. End may be "ongoing".
type Section struct {
	Start           string `toml:"start"`
	End             string `toml:"end"`
	MonthsPerAnchor int    `toml:"months_per_anchor"`
}

// OngoingEnd is the section end value meaning "two anchors past now".
const OngoingEnd = "ongoing"

// IsOngoing reports whether the section runs to the ongoing end.
func (s Section) IsOngoing() bool {
	return strings.EqualFold(strings.TrimSpace(s.End), OngoingEnd)
}

// NavCell is one manually configured [[timeline.nav_cells]] entry.
type NavCell struct {
	Date     string `toml:"date"`
	Location string `toml:"location"`
	Now      bool   `toml:"now"`
}

// StaticImage is an extra image copied into img-static/.
type StaticImage struct {
	Src  string `toml:"src"`
	Dest string `toml:"dest"`
}

// Timeline contains the geometry, labelling, and input file settings.
type Timeline struct {
	Title                  string        `toml:"title"`
	Pretitle               string        `toml:"pretitle"`
	LeftMargin             int           `toml:"left_margin"`
	IntervalPixels         int           `toml:"interval_pixels"`
	ResolutionMonths       int           `toml:"resolution_months"`
	MinBarWidth            int           `toml:"min_bar_width"`
	NowBarWidth            int           `toml:"now_bar_width"`
	NowDate                string        `toml:"now_date"`
	FiveDigitYears         bool          `toml:"five_digit_years"`
	LabelResolution        string        `toml:"label_resolution"`
	TopFrameHeight         int           `toml:"top_frame_height"`
	NowBarColor            string        `toml:"now_bar_color"`
	BackgroundStippleColor string        `toml:"background_stipple_color"`
	DataFile               string        `toml:"data_file"`
	InterestFile           string        `toml:"interest_file"`
	TemplateFile           string        `toml:"template_file"`
	StaticImages           []StaticImage `toml:"static_images"`
	Sections               []Section     `toml:"sections"`
	NavCells               []NavCell     `toml:"nav_cells"`
}

// Nav contains automatic navigation strip settings.
type Nav struct {
	IdealPixelsPerCell int `toml:"ideal_pixels_per_cell"`
	MinCells           int `toml:"min_cells"`
	MaxCells           int `toml:"max_cells"`
	CellWidth          int `toml:"cell_width"`
	CellHeight         int `toml:"cell_height"`
}

// EventBar contains bar colours and interest rendering policy.
type EventBar struct {
	Height                int     `toml:"height"`
	Color1                string  `toml:"color1"`
	Color2                string  `toml:"color2"`
	FutureColor           string  `toml:"future_color"`
	NoColor               string  `toml:"no_color"`
	YesColor              string  `toml:"yes_color"`
	NoDataColor           string  `toml:"no_data_color"`
	Saturation            float64 `toml:"saturation"`
	DiamondWidth          int     `toml:"diamond_width"`
	DiamondLeftMargin     int     `toml:"diamond_left_margin"`
	DiamondVerticalMargin int     `toml:"diamond_vertical_margin"`
	NowBarOnTop           bool    `toml:"now_bar_on_top"`
	NoVoteRatio           float64 `toml:"no_vote_ratio"`
	MissingPostsRatio     float64 `toml:"missing_posts_ratio"`
}

// Notify contains notification ledger and delivery settings.
type Notify struct {
	Enabled        bool   `toml:"enabled"`
	DataFile       string `toml:"data_file"`
	Ledger         string `toml:"ledger"`
	Sender         string `toml:"sender"`
	From           string `toml:"from"`
	SMTPServer     string `toml:"smtp_server"`
	SMTPUsername   string `toml:"smtp_username"`
	SMTPPassword   string `toml:"smtp_password"`
	Subject        string `toml:"subject"`
	NtfyTopic      string `toml:"ntfy_topic"`
	NtfyToken      string `toml:"ntfy_token"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Paths contains output and log locations.
type Paths struct {
	OutputDir    string `toml:"output_dir"`
	PrototypeDir string `toml:"prototype_dir"`
	LogDir       string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for Long View.
//
// Configuration sections by subsystem:
//   - Timeline: sections, geometry, labels, and input files
//   - Nav: automatic navigation strip bounds
//   - EventBar: bar colours and interest slice policy
//   - Notify: notification ledger and delivery
//   - Paths: output, prototype, and log directories
//   - Logging: log format, level, and retention
type Config struct {
	Timeline Timeline `toml:"timeline"`
	Nav      Nav      `toml:"nav"`
	EventBar EventBar `toml:"event_bar"`
	Notify   Notify   `toml:"notify"`
	Paths    Paths    `toml:"paths"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Relative paths
// inside the file are resolved against the file's directory; the returned
// config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	baseDir := ""
	if exists {
		baseDir = filepath.Dir(resolvedPath)
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := loadDotEnv(baseDir); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(baseDir); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// loadDotEnv reads .env files next to the config and in the working
// directory. Variables already set in the environment win.
func loadDotEnv(baseDir string) error {
	candidates := []string{".env"}
	if baseDir != "" {
		candidates = append([]string{filepath.Join(baseDir, ".env")}, candidates...)
	}
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		if info, err := os.Stat(abs); err != nil || info.IsDir() {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			return fmt.Errorf("load %s: %w", abs, err)
		}
	}
	return nil
}

// EnsureDirectories creates the log directory and the parent of the output
// directory. The output directory itself only appears on publish.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{filepath.Dir(c.Paths.OutputDir), c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// InputFiles lists the files a build reads, for change watching.
func (c *Config) InputFiles() []string {
	files := []string{c.Timeline.DataFile}
	for _, path := range []string{c.Timeline.InterestFile, c.Timeline.TemplateFile} {
		if path != "" {
			files = append(files, path)
		}
	}
	if c.Notify.Enabled && c.Notify.Ledger == LedgerCSV {
		files = append(files, c.Notify.DataFile)
	}
	for _, image := range c.Timeline.StaticImages {
		files = append(files, image.Src)
	}
	return files
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// expandPathFrom is expandPath with relative paths anchored at baseDir.
func expandPathFrom(baseDir, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" || baseDir == "" || strings.HasPrefix(pathValue, "~") || filepath.IsAbs(pathValue) {
		return expandPath(pathValue)
	}
	return expandPath(filepath.Join(baseDir, pathValue))
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
