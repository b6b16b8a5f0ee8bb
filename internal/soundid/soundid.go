// Package soundid runs a generic sound-event classifier over an audio file
// and checks its top predictions for animal-related sound evidence.
package soundid

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	tflite "github.com/tphakala/go-tflite"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/detection"
	"github.com/invadr/invadr-go/internal/errors"
	"github.com/invadr/invadr-go/internal/logging"
	"github.com/invadr/invadr-go/internal/myaudio"
)

const (
	// frameLength is the model's fixed input window: 0.975 s at 16 kHz.
	frameLength = 15600
	// frameHop overlaps consecutive windows by half.
	frameHop = frameLength / 2

	defaultTopClasses = 10
)

// Classifier scores audio against a fixed sound-event vocabulary. Per-frame
// probabilities are averaged across the whole recording before ranking.
type Classifier struct {
	labels      []string
	keywords    []string
	topN        int
	modelPath   string
	interpreter *tflite.Interpreter
	mu          sync.Mutex
	log         *slog.Logger
}

// New loads the sound-event model and its class map.
func New(settings *conf.Settings) (*Classifier, error) {
	start := time.Now()

	labels, err := loadClassMap(settings.Audio.LabelPath)
	if err != nil {
		return nil, err
	}

	modelData, err := os.ReadFile(settings.Audio.ModelPath)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to read model file: %w", err)).
			Category(errors.CategoryModelLoad).
			ModelContext(settings.Audio.ModelPath, "sound-event").
			Timing("model-load", time.Since(start)).
			Build()
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, errors.Newf("cannot load TensorFlow Lite model %s", settings.Audio.ModelPath).
			Category(errors.CategoryModelInit).
			ModelContext(settings.Audio.ModelPath, "sound-event").
			Build()
	}

	options := tflite.NewInterpreterOptions()
	if settings.Audio.Threads > 0 {
		options.SetNumThread(settings.Audio.Threads)
	} else {
		options.SetNumThread(runtime.NumCPU())
	}

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		return nil, errors.Newf("cannot create interpreter for %s", settings.Audio.ModelPath).
			Category(errors.CategoryModelInit).
			ModelContext(settings.Audio.ModelPath, "sound-event").
			Build()
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		return nil, errors.Newf("tensor allocation failed for %s", settings.Audio.ModelPath).
			Category(errors.CategoryModelInit).
			ModelContext(settings.Audio.ModelPath, "sound-event").
			Build()
	}

	runtime.GC()

	topN := settings.Audio.TopClasses
	if topN <= 0 {
		topN = defaultTopClasses
	}
	keywords := settings.Audio.Keywords
	if len(keywords) == 0 {
		keywords = conf.DefaultAnimalKeywords()
	}

	log := logging.ForService("soundid")
	if log != nil {
		log.Info("sound classifier initialized",
			"labels", len(labels),
			"top_classes", topN)
	}

	return &Classifier{
		labels:      labels,
		keywords:    keywords,
		topN:        topN,
		modelPath:   settings.Audio.ModelPath,
		interpreter: interpreter,
		log:         log,
	}, nil
}

// Analyze reads the audio file, scores every window and returns the ranked
// classes plus the animal-sound confirmation. All failures here are data
// errors for the audio stage, never fatal to a run.
func (c *Classifier) Analyze(ctx context.Context, path string) (detection.AudioResult, error) {
	samples, err := myaudio.ReadAudioFile(path)
	if err != nil {
		return detection.AudioResult{}, err
	}

	mean, err := c.meanFrameScores(ctx, samples)
	if err != nil {
		return detection.AudioResult{}, err
	}

	top := topClasses(c.labels, mean, c.topN)
	animalSounds := matchAnimalSounds(top, c.keywords)

	result := detection.AudioResult{
		TopClasses:           top,
		AnimalSoundsDetected: len(animalSounds) > 0,
		AnimalSounds:         animalSounds,
	}
	if c.log != nil {
		c.log.Debug("audio stage complete",
			"windows", numWindows(len(samples)),
			"animal_sounds_detected", result.AnimalSoundsDetected)
	}
	return result, nil
}

// meanFrameScores invokes the model on overlapping windows and averages the
// per-window probabilities. Short recordings are zero-padded to one window.
func (c *Classifier) meanFrameScores(ctx context.Context, samples []float32) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := make([]float32, len(c.labels))
	window := make([]float32, frameLength)
	windows := 0

	for start := 0; start == 0 || start+frameLength <= len(samples); start += frameHop {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryCancellation).
				Build()
		}

		for i := range window {
			window[i] = 0
		}
		copy(window, samples[min(start, len(samples)):])

		scores, err := c.invoke(window)
		if err != nil {
			return nil, err
		}
		for i, s := range scores {
			sum[i] += s
		}
		windows++
	}

	for i := range sum {
		sum[i] /= float32(windows)
	}
	return sum, nil
}

func (c *Classifier) invoke(window []float32) ([]float32, error) {
	inputTensor := c.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return nil, errors.Newf("cannot get input tensor").
			Category(errors.CategoryModelInit).
			ModelContext(c.modelPath, "sound-event").
			Build()
	}
	copy(inputTensor.Float32s(), window)

	if status := c.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.Newf("tensor invoke failed: %v", status).
			Category(errors.CategoryAudioProcessing).
			ModelContext(c.modelPath, "sound-event").
			Build()
	}

	outputTensor := c.interpreter.GetOutputTensor(0)
	predSize := outputTensor.Dim(outputTensor.NumDims() - 1)
	if predSize != len(c.labels) {
		return nil, errors.Newf("mismatched labels and predictions lengths: %d vs %d", len(c.labels), predSize).
			Category(errors.CategoryValidation).
			ModelContext(c.modelPath, "sound-event").
			Build()
	}
	scores := make([]float32, predSize)
	copy(scores, outputTensor.Float32s())
	return scores, nil
}

// numWindows reports how many overlapping windows a sample count yields.
func numWindows(sampleCount int) int {
	if sampleCount <= frameLength {
		return 1
	}
	return (sampleCount-frameLength)/frameHop + 1
}

// topClasses ranks labels by mean score and keeps the best n.
func topClasses(labels []string, scores []float32, n int) []detection.ClassScore {
	ranked := make([]detection.ClassScore, len(labels))
	for i, label := range labels {
		ranked[i] = detection.ClassScore{
			Label:      label,
			Confidence: round4(float64(scores[i])),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// matchAnimalSounds keeps the classes whose label contains any of the
// animal keywords, case-insensitively.
func matchAnimalSounds(classes []detection.ClassScore, keywords []string) []detection.ClassScore {
	var matches []detection.ClassScore
	for _, class := range classes {
		label := strings.ToLower(class.Label)
		for _, keyword := range keywords {
			if strings.Contains(label, strings.ToLower(keyword)) {
				matches = append(matches, class)
				break
			}
		}
	}
	return matches
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
