package output

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
	"github.com/RyanBlaney/uwave/pkg/audio/dft"
)

func blockAnalysis() *dft.BlockAnalysis {
	return &dft.BlockAnalysis{
		Spectrum:    []complex128{complex(1.5, 0), complex(-2, 1), complex(0.25, 3), complex(4, -4)},
		SampleRate:  8000,
		FrameSize:   4,
		DeltaFreq:   2000,
		DominantBin: 1,
		LowFreq:     2000,
		HighFreq:    4000,
		Method:      "direct",
	}
}

func TestWriteDFT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDFT(&buf, blockAnalysis()))
	assert.Equal(t, "2, 2000\n1.5\n-2\n", buf.String())
}

func TestWriteDFTFractionalDelta(t *testing.T) {
	res := blockAnalysis()
	res.DeltaFreq = 21.533203125

	var buf bytes.Buffer
	require.NoError(t, WriteDFT(&buf, res))
	first, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, "2, 21.533203125", first)
}

func TestWriteDFTNil(t *testing.T) {
	err := WriteDFT(&bytes.Buffer{}, nil)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestWriteMFCC(t *testing.T) {
	features := [][]float64{
		{1, 0.5, -0.25},
		{2, math.Pi, 0},
	}
	header := MFCCHeader{FrameCount: 2, FrameSize: 400, FrameStride: 160, Cepstra: 2}

	var buf bytes.Buffer
	require.NoError(t, WriteMFCC(&buf, header, features))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2, 400, 160, 2", lines[0])
	assert.Equal(t, "1,0.5,-0.25", lines[1])
	assert.Equal(t, "2,3.141592653589793,0", lines[2])
}

func TestWriteMFCCFrameCountMismatch(t *testing.T) {
	err := WriteMFCC(&bytes.Buffer{}, MFCCHeader{FrameCount: 3}, [][]float64{{1}})
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestWriteMFCCEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMFCC(&buf, MFCCHeader{FrameSize: 400, FrameStride: 160, Cepstra: 12}, nil))
	assert.Equal(t, "0, 400, 160, 12\n", buf.String())
}

func TestSaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()

	dftPath := filepath.Join(dir, "nested", "out.dft")
	require.NoError(t, SaveDFT(dftPath, blockAnalysis()))
	data, err := os.ReadFile(dftPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "2, 2000\n"))

	mfccPath := filepath.Join(dir, "a", "b", "out.mfcc")
	require.NoError(t, SaveMFCC(mfccPath, MFCCHeader{FrameCount: 1, FrameSize: 4, FrameStride: 2, Cepstra: 0}, [][]float64{{7}}))
	data, err = os.ReadFile(mfccPath)
	require.NoError(t, err)
	assert.Equal(t, "1, 4, 2, 0\n7\n", string(data))
}
