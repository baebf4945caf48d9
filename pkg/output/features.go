package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/dft"
)

// MFCCHeader is the first line of an MFCC feature file
type MFCCHeader struct {
	FrameCount  int `json:"frame_count" yaml:"frame_count"`
	FrameSize   int `json:"frame_size" yaml:"frame_size"`
	FrameStride int `json:"frame_stride" yaml:"frame_stride"`
	Cepstra     int `json:"cepstra" yaml:"cepstra"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteDFT writes "{binCount}, {deltaFreq}" followed by the real part of
// each bin in the lower half of the spectrum, one per line.
func WriteDFT(w io.Writer, res *dft.BlockAnalysis) error {
	if res == nil {
		return common.NewInvalidInputError("output", "nil block analysis")
	}

	bins := res.RealParts()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d, %s\n", len(bins), formatFloat(res.DeltaFreq))
	for _, v := range bins {
		bw.WriteString(formatFloat(v))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteMFCC writes the header line and then one comma separated row of
// coefficients per frame.
func WriteMFCC(w io.Writer, header MFCCHeader, features [][]float64) error {
	if header.FrameCount != len(features) {
		return common.NewInvalidInputError("output",
			fmt.Sprintf("header declares %d frames but %d were supplied", header.FrameCount, len(features)))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d, %d, %d, %d\n", header.FrameCount, header.FrameSize, header.FrameStride, header.Cepstra)
	for _, frame := range features {
		for i, v := range frame {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// SaveDFT writes a DFT file to path, creating parent directories
func SaveDFT(path string, res *dft.BlockAnalysis) error {
	return writeFile(path, func(w io.Writer) error { return WriteDFT(w, res) })
}

// SaveMFCC writes an MFCC feature file to path, creating parent directories
func SaveMFCC(path string, header MFCCHeader, features [][]float64) error {
	return writeFile(path, func(w io.Writer) error { return WriteMFCC(w, header, features) })
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return common.NewAnalysisError(common.ErrCodeIO, "output", "failed to create output directory", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return common.NewAnalysisError(common.ErrCodeIO, "output", "failed to create "+path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return common.NewAnalysisError(common.ErrCodeIO, "output", "failed to close "+path, err)
	}
	return nil
}
