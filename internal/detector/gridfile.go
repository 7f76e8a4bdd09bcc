package detector

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
)

// gridFile is the JSON export format for detector grids: one score
// plane plus five geometry planes, all row-major.
type gridFile struct {
	Rows     int                         `json:"rows"`
	Cols     int                         `json:"cols"`
	Score    []float32                   `json:"score"`
	Geometry [GeometryChannels][]float32 `json:"geometry"`
}

// StaticGrids is a GridProducer that always returns the same preloaded
// grids, ignoring the image. It backs offline processing where grids
// were exported by a separate inference step.
type StaticGrids struct {
	Score    ScoreMap
	Geometry GeometryMap
}

// Infer returns the preloaded grids.
func (s StaticGrids) Infer(image.Image) (ScoreMap, GeometryMap, error) {
	return s.Score, s.Geometry, nil
}

// LoadGridsFile reads exported detector grids from a JSON file.
func LoadGridsFile(path string) (StaticGrids, error) {
	f, err := os.Open(path)
	if err != nil {
		return StaticGrids{}, fmt.Errorf("open grids file: %w", err)
	}
	defer f.Close()
	grids, err := ReadGrids(f)
	if err != nil {
		return StaticGrids{}, fmt.Errorf("grids file %s: %w", path, err)
	}
	return grids, nil
}

// ReadGrids parses exported detector grids from JSON.
func ReadGrids(r io.Reader) (StaticGrids, error) {
	var gf gridFile
	if err := json.NewDecoder(r).Decode(&gf); err != nil {
		return StaticGrids{}, fmt.Errorf("decode grids: %w", err)
	}

	score := ScoreMap{Rows: gf.Rows, Cols: gf.Cols, Data: gf.Score}
	geom := GeometryMap{Rows: gf.Rows, Cols: gf.Cols, Channels: gf.Geometry}
	if err := validateGrids(score, geom); err != nil {
		return StaticGrids{}, err
	}
	return StaticGrids{Score: score, Geometry: geom}, nil
}
