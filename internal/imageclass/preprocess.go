package imageclass

import (
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"os"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/errors"
	"golang.org/x/image/draw"
)

// Channel normalization constants matching the classifier training pipeline.
var (
	normMean = [3]float32{0.485, 0.456, 0.406}
	normStd  = [3]float32{0.229, 0.224, 0.225}
)

// LoadImage decodes a JPEG or PNG image from disk.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "open-image").
			Build()
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryImageProcessing).
			FileContext(path, 0).
			Context("operation", "decode-image").
			Build()
	}
	return img, nil
}

// preprocess resizes the image to the classifier input size and normalizes
// it to an NHWC float32 tensor with per-channel mean/std scaling.
func preprocess(img image.Image) []float32 {
	size := conf.ImageInputSize

	resized := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)

	tensor := make([]float32, size*size*3)
	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			offset := resized.PixOffset(x, y)
			r := float32(resized.Pix[offset]) / 255.0
			g := float32(resized.Pix[offset+1]) / 255.0
			b := float32(resized.Pix[offset+2]) / 255.0

			tensor[i] = (r - normMean[0]) / normStd[0]
			tensor[i+1] = (g - normMean[1]) / normStd[1]
			tensor[i+2] = (b - normMean[2]) / normStd[2]
			i += 3
		}
	}
	return tensor
}
