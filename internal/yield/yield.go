// Package yield fits a toy linear model of expected yield against planted
// area from the recorded crops.
package yield

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/i474232898/farm-dashboard/internal/crops"
)

var (
	// ErrInsufficientData means there are fewer than two records with
	// distinct areas to fit against.
	ErrInsufficientData = errors.New("not enough crop records to fit a yield model")
	ErrInvalidArea      = errors.New("area must be a non-negative number")
)

// Model is expected_yield = Intercept + Slope*area.
type Model struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	Samples   int     `json:"samples"`
	RSquared  float64 `json:"r_squared"`
}

// Prediction is a model applied to one area.
type Prediction struct {
	Crop          string  `json:"crop,omitempty"`
	Area          float64 `json:"area"`
	ExpectedYield float64 `json:"expected_yield"` // quintals per hectare
	Production    float64 `json:"production"`     // quintals
	Model         Model   `json:"model"`
}

// Fit runs an ordinary least squares fit over records. When crop is not
// empty only records with that name (ignoring case) are used.
func Fit(records []crops.Record, crop string) (Model, error) {
	crop = strings.TrimSpace(crop)

	var xs, ys []float64
	for _, r := range records {
		if crop != "" && !strings.EqualFold(r.Name, crop) {
			continue
		}
		xs = append(xs, r.Area)
		ys = append(ys, r.ExpectedYield)
	}

	if len(xs) < 2 || stat.Variance(xs, nil) == 0 {
		return Model{}, fmt.Errorf("%w: have %d usable records", ErrInsufficientData, len(xs))
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		// All ys equal: the line fits perfectly.
		r2 = 1
	}
	return Model{Intercept: alpha, Slope: beta, Samples: len(xs), RSquared: r2}, nil
}

// Predict returns the expected yield per hectare for area, never below zero.
func (m Model) Predict(area float64) (float64, error) {
	if area < 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return 0, ErrInvalidArea
	}
	return math.Max(0, m.Intercept+m.Slope*area), nil
}

// Predictor fits against the live crop collection on every call.
type Predictor struct {
	source func() []crops.Record
}

// NewPredictor reads training records from source.
func NewPredictor(source func() []crops.Record) *Predictor {
	return &Predictor{source: source}
}

// Predict fits a model for crop (all crops when empty) and applies it to area.
func (p *Predictor) Predict(crop string, area float64) (Prediction, error) {
	if area < 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return Prediction{}, ErrInvalidArea
	}
	m, err := Fit(p.source(), crop)
	if err != nil {
		return Prediction{}, err
	}
	y, err := m.Predict(area)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{
		Crop:          strings.TrimSpace(crop),
		Area:          area,
		ExpectedYield: y,
		Production:    y * area,
		Model:         m,
	}, nil
}
