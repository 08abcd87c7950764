// ABOUTME: Linear resampler that walks an in-memory clip
// ABOUTME: Converts sample rate and playback speed in one pass using linear interpolation
package resample

import "math"

// Resampler performs linear interpolation over a whole clip.
// The read position persists between calls so a clip can be rendered in chunks.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	speed      float64
	ratio      float64
	position   float64 // input frame position
}

// New creates a new resampler at normal speed
func New(inputRate, outputRate, channels int) *Resampler {
	return NewWithSpeed(inputRate, outputRate, channels, 1.0)
}

// NewWithSpeed creates a resampler that also scales playback speed.
// Non-positive speeds play at normal speed.
func NewWithSpeed(inputRate, outputRate, channels int, speed float64) *Resampler {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = 1.0
	}
	if channels < 1 {
		channels = 1
	}
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		speed:      speed,
		ratio:      speed * float64(inputRate) / float64(outputRate),
		position:   0.0,
	}
}

// Resample renders interleaved frames from input starting at the current position.
// input: the whole interleaved clip at inputRate
// output: interleaved samples at outputRate
// When loop is set the position wraps to the start; otherwise done reports
// that the end of input has been reached.
func (r *Resampler) Resample(input []int32, output []int32, loop bool) (n int, done bool) {
	inputFrames := len(input) / r.channels
	if inputFrames == 0 {
		return 0, true
	}

	outputFrames := len(output) / r.channels
	end := float64(inputFrames)

	outIdx := 0
	for outIdx < outputFrames {
		if r.position >= end {
			if !loop {
				return outIdx * r.channels, true
			}
			r.position = math.Mod(r.position, end)
		}

		inputIdx := int(r.position)
		nextIdx := inputIdx + 1
		if nextIdx >= inputFrames {
			if loop {
				nextIdx = 0
			} else {
				nextIdx = inputIdx
			}
		}

		// Linear interpolation factor
		frac := r.position - float64(inputIdx)

		for ch := 0; ch < r.channels; ch++ {
			sample1 := input[inputIdx*r.channels+ch]
			sample2 := input[nextIdx*r.channels+ch]

			interpolated := float64(sample1)*(1.0-frac) + float64(sample2)*frac
			output[outIdx*r.channels+ch] = int32(interpolated)
		}

		outIdx++
		r.position += r.ratio
	}

	return outIdx * r.channels, false
}

// Reset rewinds to the start of the clip
func (r *Resampler) Reset() {
	r.position = 0.0
}

// Position returns the current input frame position
func (r *Resampler) Position() float64 {
	return r.position
}

// Speed returns the effective playback speed
func (r *Resampler) Speed() float64 {
	return r.speed
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(math.Ceil(float64(inputFrames) / r.ratio))
	return outputFrames * r.channels
}
