package detection

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/invadr/invadr-go/internal/errors"
)

// Request describes one inbound field observation: a geolocated image with
// optional audio. Created once per observation and owned by a single
// pipeline run.
type Request struct {
	Latitude  *float64
	Longitude *float64
	ImagePath string
	AudioPath string

	// Descriptor is the path of the input JSON this request was read from,
	// recorded in the pipeline result.
	Descriptor string
}

// requestDescriptor is the on-disk JSON shape. Both short and long
// coordinate keys are accepted.
type requestDescriptor struct {
	Lat       *float64 `json:"lat"`
	Latitude  *float64 `json:"latitude"`
	Lon       *float64 `json:"lon"`
	Longitude *float64 `json:"longitude"`
	Image     string   `json:"image"`
	Audio     string   `json:"audio"`
}

// LoadRequest reads and validates a request descriptor JSON. A malformed
// descriptor is the only fatal condition of a pipeline run, so this is the
// one loader that returns an error instead of a StageOutcome.
func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "read-request-descriptor").
			Build()
	}

	var desc requestDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryValidation).
			FileContext(path, int64(len(data))).
			Context("operation", "parse-request-descriptor").
			Build()
	}

	req := &Request{
		Latitude:   desc.Latitude,
		Longitude:  desc.Longitude,
		ImagePath:  desc.Image,
		AudioPath:  desc.Audio,
		Descriptor: path,
	}
	if req.Latitude == nil {
		req.Latitude = desc.Lat
	}
	if req.Longitude == nil {
		req.Longitude = desc.Lon
	}

	if req.ImagePath == "" {
		return nil, errors.Newf("request descriptor %s has no image reference", path).
			Category(errors.CategoryValidation).
			Build()
	}

	// Relative media paths resolve against the descriptor's directory.
	descDir := filepath.Dir(path)
	if !filepath.IsAbs(req.ImagePath) {
		req.ImagePath = filepath.Join(descDir, req.ImagePath)
	}
	if req.AudioPath != "" && !filepath.IsAbs(req.AudioPath) {
		req.AudioPath = filepath.Join(descDir, req.AudioPath)
	}

	return req, nil
}

// HasCoordinates reports whether both coordinates are present.
func (r *Request) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// HasAudio reports whether an audio reference was supplied.
func (r *Request) HasAudio() bool {
	return r.AudioPath != ""
}
