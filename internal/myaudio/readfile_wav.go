package myaudio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func readWAVInfo(file *os.File) (AudioInfo, error) {
	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return AudioInfo{}, errors.New("invalid WAV file format")
	}

	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		return AudioInfo{}, fmt.Errorf("unsupported bit depth: %d", decoder.BitDepth)
	}

	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return AudioInfo{}, fmt.Errorf("unsupported number of channels: %d", decoder.NumChans)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return AudioInfo{}, err
	}

	bytesPerSample := int(decoder.BitDepth / 8)
	totalSamples := int(fileInfo.Size()) / bytesPerSample / int(decoder.NumChans)

	return AudioInfo{
		SampleRate:   int(decoder.SampleRate),
		TotalSamples: totalSamples,
		NumChannels:  int(decoder.NumChans),
		BitDepth:     int(decoder.BitDepth),
	}, nil
}

// readWAV decodes the whole file into mono float32 samples at the file's
// native rate.
func readWAV(file *os.File) ([]float32, int, error) {
	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, 0, errors.New("input is not a valid WAV audio file")
	}

	divisor, err := getAudioDivisor(int(decoder.BitDepth))
	if err != nil {
		return nil, 0, err
	}

	numChannels := int(decoder.NumChans)
	sourceRate := int(decoder.SampleRate)

	buf := &audio.IntBuffer{
		Data:   make([]int, 65536),
		Format: &audio.Format{SampleRate: sourceRate, NumChannels: numChannels},
	}

	var samples []float32
	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, 0, err
		}
		if n == 0 {
			break
		}
		for _, sample := range buf.Data[:n] {
			samples = append(samples, float32(sample)/divisor)
		}
	}

	return mixdown(samples, numChannels), sourceRate, nil
}
