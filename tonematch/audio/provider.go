package audio

// Provider supplies host PCM samples rendered from the converter output.
type Provider interface {
	// GetSamples retrieves up to count mono samples for playback
	GetSamples(count int) []int16

	// SampleRate returns the rate GetSamples is rendered at
	SampleRate() int
}
