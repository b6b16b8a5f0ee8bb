package imageclass

import (
	"context"
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/cpuspec"
	"github.com/invadr/invadr-go/internal/detection"
	"github.com/invadr/invadr-go/internal/errors"
	"github.com/invadr/invadr-go/internal/logging"
	tflite "github.com/tphakala/go-tflite"
	"github.com/tphakala/go-tflite/delegates/xnnpack"
)

// TFLiteClassifier runs one species classifier model through the
// TensorFlow Lite interpreter.
type TFLiteClassifier struct {
	kingdom     detection.Kingdom
	labels      []string
	nonInvasive string
	modelPath   string
	interpreter *tflite.Interpreter
	mu          sync.Mutex
}

// NewAnimalClassifier loads the animal-species model.
func NewAnimalClassifier(settings *conf.Settings) (*TFLiteClassifier, error) {
	labels := AnimalLabels()
	if settings.Image.AnimalLabelPath != "" {
		var err error
		labels, err = loadLabelFile(settings.Image.AnimalLabelPath)
		if err != nil {
			return nil, err
		}
	}
	return newClassifier(detection.KingdomAnimal, settings.Image.AnimalModelPath, labels, AnimalNonInvasiveLabel, settings)
}

// NewPlantClassifier loads the plant-species model.
func NewPlantClassifier(settings *conf.Settings) (*TFLiteClassifier, error) {
	labels := PlantLabels()
	if settings.Image.PlantLabelPath != "" {
		var err error
		labels, err = loadLabelFile(settings.Image.PlantLabelPath)
		if err != nil {
			return nil, err
		}
	}
	return newClassifier(detection.KingdomPlant, settings.Image.PlantModelPath, labels, PlantNonInvasiveLabel, settings)
}

func newClassifier(kingdom detection.Kingdom, modelPath string, labels []string, nonInvasive string, settings *conf.Settings) (*TFLiteClassifier, error) {
	start := time.Now()

	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to read model file: %w", err)).
			Category(errors.CategoryModelLoad).
			ModelContext(modelPath, string(kingdom)).
			Timing("model-load", time.Since(start)).
			Build()
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, errors.Newf("cannot load TensorFlow Lite model %s", modelPath).
			Category(errors.CategoryModelInit).
			ModelContext(modelPath, string(kingdom)).
			Context("model_size_mb", len(modelData)/1024/1024).
			Build()
	}

	threads := determineThreadCount(settings.Image.Threads)

	options := tflite.NewInterpreterOptions()
	log := logging.ForService("imageclass")
	if settings.Image.UseXNNPACK {
		delegate := xnnpack.New(xnnpack.DelegateOptions{NumThreads: int32(max(1, threads-1))}) //nolint:gosec // G115: thread count bounded by CPU count, safe conversion
		if delegate == nil {
			if log != nil {
				log.Warn("Failed to create XNNPACK delegate, falling back to default CPU")
			}
			options.SetNumThread(threads)
		} else {
			options.AddDelegate(delegate)
			options.SetNumThread(1)
		}
	} else {
		options.SetNumThread(threads)
	}

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		return nil, errors.Newf("cannot create interpreter for %s", modelPath).
			Category(errors.CategoryModelInit).
			ModelContext(modelPath, string(kingdom)).
			Build()
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		return nil, errors.Newf("tensor allocation failed for %s", modelPath).
			Category(errors.CategoryModelInit).
			ModelContext(modelPath, string(kingdom)).
			Build()
	}

	// Model data is no longer needed, TFLite keeps its own internal copy
	runtime.GC()

	if log != nil {
		log.Info("image classifier initialized",
			"kingdom", string(kingdom),
			"labels", len(labels),
			"threads", threads)
	}

	return &TFLiteClassifier{
		kingdom:     kingdom,
		labels:      labels,
		nonInvasive: nonInvasive,
		modelPath:   modelPath,
		interpreter: interpreter,
	}, nil
}

// determineThreadCount resolves the configured thread setting, using the
// host's performance cores when set to auto.
func determineThreadCount(configured int) int {
	if configured > 0 {
		return configured
	}
	return cpuspec.GetCPUSpec().GetOptimalThreadCount()
}

// Kingdom reports which classification axis this classifier covers.
func (c *TFLiteClassifier) Kingdom() detection.Kingdom {
	return c.kingdom
}

// NonInvasiveLabel returns the vocabulary's non-invasive sentinel.
func (c *TFLiteClassifier) NonInvasiveLabel() string {
	return c.nonInvasive
}

// Classify runs inference on a decoded image. The interpreter is locked for
// the duration of one invocation; concurrent callers serialize here.
func (c *TFLiteClassifier) Classify(ctx context.Context, img image.Image) (detection.SpeciesPrediction, error) {
	if err := ctx.Err(); err != nil {
		return detection.SpeciesPrediction{}, errors.New(err).
			Category(errors.CategoryCancellation).
			Build()
	}

	sample := preprocess(img)

	c.mu.Lock()
	defer c.mu.Unlock()

	inputTensor := c.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return detection.SpeciesPrediction{}, errors.Newf("cannot get input tensor").
			Category(errors.CategoryModelInit).
			ModelContext(c.modelPath, string(c.kingdom)).
			Build()
	}
	copy(inputTensor.Float32s(), sample)

	if status := c.interpreter.Invoke(); status != tflite.OK {
		return detection.SpeciesPrediction{}, errors.Newf("tensor invoke failed: %v", status).
			Category(errors.CategoryImageProcessing).
			ModelContext(c.modelPath, string(c.kingdom)).
			Build()
	}

	outputTensor := c.interpreter.GetOutputTensor(0)
	logits := extractLogits(outputTensor)
	if len(logits) != len(c.labels) {
		return detection.SpeciesPrediction{}, errors.Newf("mismatched labels and predictions lengths: %d vs %d", len(c.labels), len(logits)).
			Category(errors.CategoryValidation).
			ModelContext(c.modelPath, string(c.kingdom)).
			Build()
	}

	scores := pairLabelsAndScores(c.labels, softmax(logits))
	return predictionFromScores(scores), nil
}

// extractLogits copies prediction results out of a TensorFlow Lite tensor.
func extractLogits(tensor *tflite.Tensor) []float32 {
	predSize := tensor.Dim(tensor.NumDims() - 1)
	logits := make([]float32, predSize)
	copy(logits, tensor.Float32s())
	return logits
}
