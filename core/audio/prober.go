package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"

	"distr/core/apperr"
	"distr/logger"
)

// FFProbe inspects audio files via the ffprobe binary.
type FFProbe struct {
	path string
}

// NewFFProbe returns a prober using the given ffprobe binary path.
func NewFFProbe(path string) *FFProbe {
	if path == "" {
		path = "ffprobe"
	}
	return &FFProbe{path: path}
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration returns the duration of an audio file in whole seconds, rounded up.
// Files ffprobe cannot parse are rejected as invalid media.
func (p *FFProbe) Duration(ctx context.Context, filePath string) (int, error) {
	cmd := exec.CommandContext(ctx, p.path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		filePath,
	)

	out, err := cmd.Output()
	if err != nil {
		logger.Warn("ffprobe failed",
			logger.String("file", filePath),
			logger.ErrorField(err))
		return 0, apperr.BusinessRule("file is not a valid audio file")
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if parsed.Format.Duration == "" {
		return 0, apperr.BusinessRule("file is not a valid audio file")
	}

	seconds, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil || seconds <= 0 {
		return 0, apperr.BusinessRule("file is not a valid audio file")
	}
	return int(math.Ceil(seconds)), nil
}
