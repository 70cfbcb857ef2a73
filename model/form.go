package model

import "fmt"

type FieldKind string

const FIELD_KIND_TEXT FieldKind = "text"
const FIELD_KIND_NUMBER FieldKind = "number"
const FIELD_KIND_DATE FieldKind = "date"
const FIELD_KIND_BOOLEAN FieldKind = "boolean"
const FIELD_KIND_SELECT FieldKind = "select"
const FIELD_KIND_REFERENCE FieldKind = "reference"
const FIELD_KIND_CALCULATED FieldKind = "calculated"
const FIELD_KIND_MATRIX FieldKind = "matrix"
const FIELD_KIND_SIGNATURE FieldKind = "signature"
const FIELD_KIND_GEOLOCATION FieldKind = "geolocation"

var fieldKinds = map[FieldKind]bool{
	FIELD_KIND_TEXT:        true,
	FIELD_KIND_NUMBER:      true,
	FIELD_KIND_DATE:        true,
	FIELD_KIND_BOOLEAN:     true,
	FIELD_KIND_SELECT:      true,
	FIELD_KIND_REFERENCE:   true,
	FIELD_KIND_CALCULATED:  true,
	FIELD_KIND_MATRIX:      true,
	FIELD_KIND_SIGNATURE:   true,
	FIELD_KIND_GEOLOCATION: true,
}

func ValidateFieldKind(kind string) error {
	if !fieldKinds[FieldKind(kind)] {
		return fmt.Errorf("unknown field kind %s", kind)
	}
	return nil
}

type Form struct {
	Name   string     `json:"name" yaml:"name"`
	Title  string     `json:"title" yaml:"title"`
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

// FieldDef is a tagged union keyed by Kind. Exactly one of the kind-specific
// config pointers may be set, and it must match Kind.
type FieldDef struct {
	Id         string             `json:"id" yaml:"id"`
	Label      string             `json:"label" yaml:"label"`
	Kind       FieldKind          `json:"kind" yaml:"kind"`
	Required   bool               `json:"required" yaml:"required"`
	Select     *SelectConfig      `json:"select,omitempty" yaml:"select"`
	Reference  *ReferenceConfig   `json:"reference,omitempty" yaml:"reference"`
	Calculated *CalculatedConfig  `json:"calculated,omitempty" yaml:"calculated"`
	Matrix     *MatrixConfig      `json:"matrix,omitempty" yaml:"matrix"`
	Geo        *GeolocationConfig `json:"geolocation,omitempty" yaml:"geolocation"`
}

type SelectConfig struct {
	Options  []string `json:"options" yaml:"options"`
	Multiple bool     `json:"multiple" yaml:"multiple"`
}

type ReferenceConfig struct {
	TargetForm   string `json:"targetForm" yaml:"targetForm"`
	DisplayField string `json:"displayField" yaml:"displayField"`
}

type CalculatedConfig struct {
	Formula string `json:"formula" yaml:"formula"`
}

type MatrixConfig struct {
	Rows    []string `json:"rows" yaml:"rows"`
	Columns []string `json:"columns" yaml:"columns"`
}

type GeolocationConfig struct {
	CaptureAccuracy bool `json:"captureAccuracy" yaml:"captureAccuracy"`
}
