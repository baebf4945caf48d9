package pcm

import (
	"time"
)

// Buffer is an in-memory, interleaved PCM sample container
type Buffer struct {
	sampleRate int
	channels   int
	format     SampleFormat
	count      int
	data       []int16
}

// NewBuffer creates an empty buffer. channels below 1 are treated as mono.
func NewBuffer(sampleRate, channels int, format SampleFormat) *Buffer {
	if channels < 1 {
		channels = 1
	}
	return &Buffer{
		sampleRate: sampleRate,
		channels:   channels,
		format:     format,
	}
}

// NewMonoBuffer wraps a copy of samples as a single channel buffer
func NewMonoBuffer(samples []int16, sampleRate int, format SampleFormat) *Buffer {
	b := NewBuffer(sampleRate, 1, format)
	b.count = len(samples)
	b.data = make([]int16, len(samples))
	copy(b.data, samples)
	return b
}

// SetSampleCount reallocates storage for count samples per channel, filled with silence
func (b *Buffer) SetSampleCount(count int) {
	if count < 0 {
		count = 0
	}
	b.count = count
	b.data = make([]int16, count*b.channels)
	if b.format.Silence != 0 {
		for i := range b.data {
			b.data[i] = b.format.Silence
		}
	}
}

// Sample returns the sample at index for channel, or silence when out of range
func (b *Buffer) Sample(index, channel int) int16 {
	if index < 0 || index >= b.count || channel < 0 || channel >= b.channels {
		return b.format.Silence
	}
	return b.data[index*b.channels+channel]
}

// SetSample stores a sample; out of range writes are ignored
func (b *Buffer) SetSample(index, channel int, value int16) {
	if index < 0 || index >= b.count || channel < 0 || channel >= b.channels {
		return
	}
	b.data[index*b.channels+channel] = value
}

// Len returns the number of samples per channel
func (b *Buffer) Len() int {
	return b.count
}

func (b *Buffer) Format() SampleFormat {
	return b.format
}

func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

func (b *Buffer) Channels() int {
	return b.channels
}

// DataBytes is the size of the PCM payload as it would be stored in a WAV data chunk
func (b *Buffer) DataBytes() int {
	return b.count * b.channels * b.format.BytesPerSample()
}

// Duration returns the playback length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.count) / float64(b.sampleRate) * float64(time.Second))
}

// Channel returns a copy of one channel's samples
func (b *Buffer) Channel(channel int) []int16 {
	out := make([]int16, b.count)
	for i := range b.count {
		out[i] = b.Sample(i, channel)
	}
	return out
}
