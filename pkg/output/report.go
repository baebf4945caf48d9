package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	commonoutput "github.com/RyanBlaney/latency-benchmark-common/output"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/dft"
)

// Formats lists the report formats NewFormatter accepts
var Formats = []string{"json", "yaml", "csv", "table"}

// NewFormatter returns the report formatter for format. An empty name means json.
func NewFormatter(format string) (commonoutput.Formatter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return &commonoutput.JSONFormatter{}, nil
	case "yaml", "yml":
		return &commonoutput.YAMLFormatter{}, nil
	case "csv":
		return &commonoutput.CSVFormatter{}, nil
	case "table":
		return &commonoutput.TableFormatter{}, nil
	default:
		return nil, common.NewConfigurationError("output",
			fmt.Sprintf("unknown output format %q (expected one of %s)", format, strings.Join(Formats, ", ")))
	}
}

// FormatReport renders data with the named formatter. NaN and infinite values
// are replaced with zero so JSON encoding cannot fail on them.
func FormatReport(format string, data map[string]any) ([]byte, error) {
	formatter, err := NewFormatter(format)
	if err != nil {
		return nil, err
	}

	out, err := formatter.Format(sanitize(data).(map[string]any), true)
	if err != nil {
		return nil, fmt.Errorf("failed to format report: %w", err)
	}
	return out, nil
}

// WriteReport formats data and writes it to path, or to stdout when path is empty
func WriteReport(path, format string, data map[string]any) error {
	out, err := FormatReport(format, data)
	if err != nil {
		return err
	}

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}

	if err := writeFile(path, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	}); err != nil {
		return err
	}

	logging.WithFields(logging.Fields{"component": "report_writer"}).Debug("Report written to file", logging.Fields{
		"output_file": path,
		"format":      format,
		"size_bytes":  len(out),
	})
	return nil
}

// AnalysisReport summarizes a single block analysis
func AnalysisReport(file string, res *dft.BlockAnalysis) map[string]any {
	return map[string]any{
		"file":         file,
		"sample_rate":  res.SampleRate,
		"frame_size":   res.FrameSize,
		"delta_freq":   res.DeltaFreq,
		"dominant_bin": res.DominantBin,
		"low_freq":     res.LowFreq,
		"high_freq":    res.HighFreq,
		"method":       res.Method,
	}
}

// MFCCReport summarizes an MFCC run, including the per-coefficient mean
func MFCCReport(file string, header MFCCHeader, features [][]float64) map[string]any {
	return map[string]any{
		"file":         file,
		"frame_count":  header.FrameCount,
		"frame_size":   header.FrameSize,
		"frame_stride": header.FrameStride,
		"cepstra":      header.Cepstra,
		"mean":         coefficientMeans(features),
	}
}

func coefficientMeans(features [][]float64) []float64 {
	if len(features) == 0 {
		return []float64{}
	}
	means := make([]float64, len(features[0]))
	for _, frame := range features {
		for i := range means {
			if i < len(frame) {
				means[i] += frame[i]
			}
		}
	}
	for i := range means {
		means[i] /= float64(len(features))
	}
	return means
}

// sanitize recursively replaces NaN and infinite floats with zero
func sanitize(data any) any {
	switch v := data.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0.0
		}
		return v
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = sanitize(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = sanitize(val)
		}
		return result
	case []float64:
		result := make([]float64, len(v))
		for i, val := range v {
			result[i] = sanitize(val).(float64)
		}
		return result
	case []map[string]any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = sanitize(val)
		}
		return result
	default:
		return sanitizeReflect(data)
	}
}

// sanitizeReflect converts structs to maps keyed by their json tags so nested
// floats can be cleaned
func sanitizeReflect(data any) any {
	if data == nil {
		return nil
	}

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		if _, ok := val.Interface().(fmt.Stringer); ok {
			return data
		}
		result := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !field.CanInterface() {
				continue
			}
			name := typ.Field(i).Name
			if tag := typ.Field(i).Tag.Get("json"); tag != "" {
				parts := strings.Split(tag, ",")
				if parts[0] == "-" {
					continue
				}
				if parts[0] != "" {
					name = parts[0]
				}
			}
			result[name] = sanitize(field.Interface())
		}
		return result
	case reflect.Slice:
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			result[i] = sanitize(val.Index(i).Interface())
		}
		return result
	case reflect.Float32, reflect.Float64:
		return sanitize(val.Float())
	default:
		return val.Interface()
	}
}
