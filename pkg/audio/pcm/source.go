package pcm

// SampleSource is the read-only sample accessor consumed by the transform
// engine and the MFCC pipeline.
//
// Sample never fails: indices outside [0, Len()) and channels the source does
// not carry return Format().Silence.
type SampleSource interface {
	Sample(index, channel int) int16
	Len() int
	Format() SampleFormat
}
