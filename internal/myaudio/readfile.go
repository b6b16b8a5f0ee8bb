// Package myaudio reads audio files into the mono float32 sample stream the
// sound-event classifier expects. WAV and FLAC inputs are supported; other
// sample rates are resampled and multi-channel audio is mixed down.
package myaudio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/errors"
)

// AudioInfo contains basic information about an audio file.
type AudioInfo struct {
	SampleRate   int
	TotalSamples int
	NumChannels  int
	BitDepth     int
}

// ReadAudioFile reads the entire file at path and returns mono samples in
// [-1, 1] at the classifier sample rate.
func ReadAudioFile(path string) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			Component("myaudio").
			FileContext(path, 0).
			Build()
	}
	defer file.Close()

	var samples []float32
	var sourceRate int

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, sourceRate, err = readWAV(file)
	case ".flac":
		samples, sourceRate, err = readFLAC(file)
	default:
		return nil, errors.Newf("unsupported audio format: %s", filepath.Ext(path)).
			Category(errors.CategoryAudioProcessing).
			Component("myaudio").
			FileContext(path, 0).
			Build()
	}
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryAudioProcessing).
			Component("myaudio").
			FileContext(path, 0).
			Build()
	}

	if sourceRate != conf.SampleRate {
		samples, err = ResampleAudio(samples, sourceRate, conf.SampleRate)
		if err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryAudioProcessing).
				Component("myaudio").
				Context("source_rate", sourceRate).
				Build()
		}
	}

	return samples, nil
}

// GetAudioInfo returns basic information about the audio file at path
// without decoding its samples.
func GetAudioInfo(path string) (AudioInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return AudioInfo{}, errors.New(err).
			Category(errors.CategoryFileIO).
			Component("myaudio").
			FileContext(path, 0).
			Build()
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return readWAVInfo(file)
	case ".flac":
		return readFLACInfo(file)
	default:
		return AudioInfo{}, errors.Newf("unsupported audio format: %s", filepath.Ext(path)).
			Category(errors.CategoryAudioProcessing).
			Component("myaudio").
			Build()
	}
}

// getAudioDivisor maps a bit depth to the int-to-float32 conversion divisor.
func getAudioDivisor(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, errors.Newf("unsupported audio file bit depth: %d", bitDepth).
			Category(errors.CategoryAudioProcessing).
			Component("myaudio").
			Build()
	}
}

// mixdown averages interleaved channels into a mono stream. Mono input is
// returned as is.
func mixdown(samples []float32, numChannels int) []float32 {
	if numChannels <= 1 {
		return samples
	}
	frames := len(samples) / numChannels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < numChannels; c++ {
			sum += samples[i*numChannels+c]
		}
		mono[i] = sum / float32(numChannels)
	}
	return mono
}
