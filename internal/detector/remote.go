package detector

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
)

// RemoteGrids is a GridProducer backed by an external detector
// inference service. The image is posted PNG-encoded; the service
// answers with the exported grid JSON (same format as grid files).
type RemoteGrids struct {
	http    *resty.Client
	baseURL string
}

// NewRemoteGrids creates a producer talking to the inference service at
// baseURL.
func NewRemoteGrids(baseURL string) *RemoteGrids {
	return &RemoteGrids{
		http:    resty.New().SetTimeout(30 * time.Second),
		baseURL: baseURL,
	}
}

// Infer posts the image to the inference service and parses the grids.
func (r *RemoteGrids) Infer(img image.Image) (ScoreMap, GeometryMap, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return ScoreMap{}, GeometryMap{}, fmt.Errorf("encode image: %w", err)
	}

	resp, err := r.http.R().
		SetHeader("Content-Type", "image/png").
		SetBody(buf.Bytes()).
		Post(r.baseURL + "/infer")
	if err != nil {
		return ScoreMap{}, GeometryMap{}, fmt.Errorf("detector inference: %w", err)
	}
	if resp.IsError() {
		return ScoreMap{}, GeometryMap{}, fmt.Errorf("detector inference: %s", resp.Status())
	}

	grids, err := ReadGrids(bytes.NewReader(resp.Body()))
	if err != nil {
		return ScoreMap{}, GeometryMap{}, err
	}
	return grids.Score, grids.Geometry, nil
}
