package pcm

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
)

// LoadFLAC decodes an 8-bit or 16-bit FLAC file. 8-bit samples are shifted to
// the unsigned WAV convention so Format8Bit.Silence applies.
func LoadFLAC(path string) (*Buffer, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, common.NewAnalysisError(common.ErrCodeDecoding, path, "could not parse FLAC stream", err)
	}
	defer stream.Close()

	info := stream.Info
	format, err := FormatForBitDepth(int(info.BitsPerSample))
	if err != nil {
		return nil, err
	}

	channels := int(info.NChannels)
	buf := NewBuffer(int(info.SampleRate), channels, format)

	var offset int32
	if format.BitDepth == 8 {
		offset = 128
	}

	samples := make([]int16, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, common.NewAnalysisError(common.ErrCodeDecoding, path, "could not parse FLAC frame", err)
		}
		if len(frame.Subframes) != channels {
			return nil, common.NewAnalysisError(common.ErrCodeDecoding, path,
				fmt.Sprintf("frame has %d subframes, expected %d", len(frame.Subframes), channels), nil)
		}

		for i := range frame.Subframes[0].NSamples {
			for ch := range channels {
				samples = append(samples, int16(frame.Subframes[ch].Samples[i]+offset))
			}
		}
	}

	buf.count = len(samples) / channels
	buf.data = samples[:buf.count*channels]

	return buf, nil
}
