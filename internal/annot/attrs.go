package annot

import (
	"fmt"
	"strconv"
	"strings"
)

// ExcavationType is one of a closed set of excavation labels.
type ExcavationType string

const (
	ExcavationNormal             ExcavationType = "العادي"
	ExcavationEmergency          ExcavationType = "الطارئ"
	ExcavationMultiple           ExcavationType = "المتعدد"
	ExcavationBuildingConnection ExcavationType = "توصيلة المباني"
	ExcavationNewPlans           ExcavationType = "مخططات جديدة"
)

// ExcavationTypes lists every label; the first is the default.
var ExcavationTypes = []ExcavationType{
	ExcavationNormal,
	ExcavationEmergency,
	ExcavationMultiple,
	ExcavationBuildingConnection,
	ExcavationNewPlans,
}

// RoadType is one of a closed set of road surface labels.
type RoadType string

const (
	RoadSoil    RoadType = "Soil"
	RoadAsphalt RoadType = "Asphalt"
	RoadTiles   RoadType = "tiles/blocks"
)

// RoadTypes lists every label; the first is the default.
var RoadTypes = []RoadType{RoadSoil, RoadAsphalt, RoadTiles}

func (e ExcavationType) Valid() bool {
	for _, v := range ExcavationTypes {
		if v == e {
			return true
		}
	}
	return false
}

// Next cycles to the following label, wrapping around.
func (e ExcavationType) Next() ExcavationType { return step(ExcavationTypes, e, 1) }

// Prev cycles to the preceding label, wrapping around.
func (e ExcavationType) Prev() ExcavationType { return step(ExcavationTypes, e, -1) }

func (r RoadType) Valid() bool {
	for _, v := range RoadTypes {
		if v == r {
			return true
		}
	}
	return false
}

// Next cycles to the following label, wrapping around.
func (r RoadType) Next() RoadType { return step(RoadTypes, r, 1) }

// Prev cycles to the preceding label, wrapping around.
func (r RoadType) Prev() RoadType { return step(RoadTypes, r, -1) }

// step moves d places through set from v. An unknown v yields the first
// label.
func step[T comparable](set []T, v T, d int) T {
	for i, x := range set {
		if x == v {
			n := len(set)
			return set[((i+d)%n+n)%n]
		}
	}
	return set[0]
}

// Attributes are the user-editable fields of a line.
type Attributes struct {
	Depth          string
	Width          string
	ExcavationType ExcavationType
	RoadType       RoadType
}

// DefaultAttributes returns empty measurements and the first label of each set.
func DefaultAttributes() Attributes {
	return Attributes{
		ExcavationType: ExcavationTypes[0],
		RoadType:       RoadTypes[0],
	}
}

// WithDefaults fills empty enum labels with their defaults.
func (a Attributes) WithDefaults() Attributes {
	if a.ExcavationType == "" {
		a.ExcavationType = ExcavationTypes[0]
	}
	if a.RoadType == "" {
		a.RoadType = RoadTypes[0]
	}
	a.Depth = strings.TrimSpace(a.Depth)
	a.Width = strings.TrimSpace(a.Width)
	return a
}

// Validate checks the measurement strings are empty or numeric and the
// labels belong to their sets.
func (a Attributes) Validate() error {
	if err := checkNumeric("depth", a.Depth); err != nil {
		return err
	}
	if err := checkNumeric("width", a.Width); err != nil {
		return err
	}
	if !a.ExcavationType.Valid() {
		return fmt.Errorf("excavation type %q: %w", a.ExcavationType, ErrInvalidInput)
	}
	if !a.RoadType.Valid() {
		return fmt.Errorf("road type %q: %w", a.RoadType, ErrInvalidInput)
	}
	return nil
}

func checkNumeric(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return fmt.Errorf("%s %q is not a number: %w", field, v, ErrInvalidInput)
	}
	return nil
}
