package pcm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
)

// Load decodes an audio file, choosing the codec from its extension
func Load(path string) (*Buffer, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "pcm_loader",
		"path":      path,
	})

	var (
		buf *Buffer
		err error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave":
		buf, err = LoadWAV(path)
	case ".flac":
		buf, err = LoadFLAC(path)
	default:
		return nil, common.NewAnalysisError(common.ErrCodeUnsupportedFormat, path,
			fmt.Sprintf("unsupported file extension: %q", ext), nil)
	}
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, err
	}

	logger.Debug("Audio file decoded", logging.Fields{
		"sample_rate": buf.SampleRate(),
		"channels":    buf.Channels(),
		"bit_depth":   buf.Format().BitDepth,
		"samples":     buf.Len(),
		"duration":    buf.Duration().Seconds(),
	})

	return buf, nil
}
