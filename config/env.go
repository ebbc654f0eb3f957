package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ANNOTATE_"

// ApplyEnv overrides fields from ANNOTATE_* variables. Values from envPath
// (a .env file, optional) are used when the process environment does not set
// the variable. Malformed values are reported and leave the field unchanged.
func (c *Config) ApplyEnv(envPath string) error {
	dotenv := map[string]string{}
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			values, err := godotenv.Read(envPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", envPath, err)
			}
			dotenv = values
		}
	}
	lookup := func(name string) (string, bool) {
		key := EnvPrefix + name
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v), true
		}
		v, ok := dotenv[key]
		return strings.TrimSpace(v), ok
	}

	var bad []string
	setInt := func(name string, dst *int) {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				bad = append(bad, EnvPrefix+name)
				return
			}
			*dst = n
		}
	}
	setFloat := func(name string, dst *float64) {
		if v, ok := lookup(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				bad = append(bad, EnvPrefix+name)
				return
			}
			*dst = f
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				bad = append(bad, EnvPrefix+name)
				return
			}
			*dst = b
		}
	}
	setBool("DEBUG", &c.Debug)
	setBool("DARK_MODE", &c.DarkMode)
	setInt("HOVER_DELAY_MS", &c.HoverDelayMS)
	setInt("DISPLAY_MAX_SIDE", &c.DisplayMaxSide)
	setInt("PREVIEW_MAX_SIDE", &c.PreviewMaxSide)
	setInt("OUTLINE_WIDTH", &c.OutlineWidth)
	setFloat("LABEL_FONT_SCALE", &c.LabelFontScale)
	setString("DETECTOR_URL", &c.DetectorURL)
	setInt("DETECTOR_TIMEOUT_MS", &c.DetectorTimeoutMS)
	setString("DETECTIONS_SUFFIX", &c.DetectionsSuffix)
	setFloat("CONF_THRESHOLD", &c.ConfThreshold)
	setFloat("IOU_THRESHOLD", &c.IoUThreshold)
	setInt("MATTING_ITERATIONS", &c.MattingIterations)
	setString("STATUS_ADDR", &c.StatusAddr)

	_ = c.Validate()
	if len(bad) > 0 {
		return fmt.Errorf("invalid environment overrides: %s", strings.Join(bad, ", "))
	}
	return nil
}
