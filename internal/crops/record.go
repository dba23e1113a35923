// Package crops persists the farmer's crop planting declarations as an
// append-only JSON array in a single file.
package crops

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// AddedOnLayout is the timestamp format stamped into Record.AddedOn.
const AddedOnLayout = "2006-01-02 15:04:05.000000"

var (
	// ErrValidation is returned when a record fails validation; nothing is written.
	ErrValidation = errors.New("invalid crop record")

	validate = validator.New()
)

// Record is one crop planting declaration.
type Record struct {
	Name          string  `json:"name" validate:"required"`
	Area          float64 `json:"area" validate:"gte=0"`           // hectares
	ExpectedYield float64 `json:"expected_yield" validate:"gte=0"` // quintals per hectare
	AddedOn       string  `json:"added_on"`
}

// NewRecord is the user-supplied part of a Record.
type NewRecord struct {
	Name          string  `json:"name"`
	Area          float64 `json:"area"`
	ExpectedYield float64 `json:"expected_yield"`
}

// Stamp builds the Record for n, setting AddedOn from now.
func (n NewRecord) Stamp(now time.Time) Record {
	return Record{
		Name:          strings.TrimSpace(n.Name),
		Area:          n.Area,
		ExpectedYield: n.ExpectedYield,
		AddedOn:       now.Format(AddedOnLayout),
	}
}

// Production is the estimated harvest of the record in quintals.
func (r Record) Production() float64 {
	return r.Area * r.ExpectedYield
}

// Validate checks a record before it is persisted. The name must be non-blank,
// area and expected yield must be finite and non-negative.
func Validate(r Record) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if math.IsInf(r.Area, 0) || math.IsInf(r.ExpectedYield, 0) {
		return fmt.Errorf("%w: area and expected_yield must be finite", ErrValidation)
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
