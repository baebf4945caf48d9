package pcm

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/uwave/pkg/audio/common"
)

const wavFormatPCM = 1

// DecodeWAV reads an 8-bit or 16-bit PCM WAV stream into a Buffer
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, common.NewAnalysisError(common.ErrCodeDecoding, "wav", "invalid WAV file", nil)
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, common.NewAnalysisError(common.ErrCodeUnsupportedFormat, "wav",
			fmt.Sprintf("unsupported audio format: %d", decoder.WavAudioFormat), nil)
	}

	format, err := FormatForBitDepth(int(decoder.BitDepth))
	if err != nil {
		return nil, err
	}

	intBuf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, common.NewAnalysisError(common.ErrCodeDecoding, "wav", "could not read PCM buffer", err)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		return nil, common.NewAnalysisError(common.ErrCodeDecoding, "wav", "no channels in WAV file", nil)
	}

	buf := NewBuffer(int(decoder.SampleRate), channels, format)
	buf.SetSampleCount(len(intBuf.Data) / channels)
	for i := range buf.count * channels {
		buf.data[i] = int16(intBuf.Data[i])
	}

	return buf, nil
}

// EncodeWAV writes buf as a PCM WAV stream
func EncodeWAV(w io.WriteSeeker, buf *Buffer) error {
	encoder := wav.NewEncoder(w, buf.sampleRate, buf.format.BitDepth, buf.channels, wavFormatPCM)

	data := make([]int, len(buf.data))
	for i, s := range buf.data {
		data[i] = int(s)
	}

	intBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: buf.channels,
			SampleRate:  buf.sampleRate,
		},
		Data:           data,
		SourceBitDepth: buf.format.BitDepth,
	}

	if err := encoder.Write(intBuf); err != nil {
		return common.NewAnalysisError(common.ErrCodeIO, "wav", "data writing error", err)
	}

	if err := encoder.Close(); err != nil {
		return common.NewAnalysisError(common.ErrCodeIO, "wav", "failed to finalize WAV header", err)
	}

	return nil
}

// LoadWAV decodes the WAV file at path
func LoadWAV(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, common.NewAnalysisError(common.ErrCodeIO, path, "could not open file", err)
	}
	defer file.Close()

	return DecodeWAV(file)
}

// SaveWAV writes buf to path, replacing any existing file
func SaveWAV(path string, buf *Buffer) error {
	file, err := os.Create(path)
	if err != nil {
		return common.NewAnalysisError(common.ErrCodeIO, path, "output file creation error", err)
	}

	if err := EncodeWAV(file, buf); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
