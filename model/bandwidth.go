package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type BandwidthKind int

const (
	BandwidthGrid BandwidthKind = iota
	BandwidthFixed
	BandwidthAuto
	BandwidthNormalReference
)

const (
	bandwidthAutoToken            = "auto"
	bandwidthNormalReferenceToken = "normal_reference"
)

func (k BandwidthKind) String() string {
	switch k {
	case BandwidthGrid:
		return "grid"
	case BandwidthFixed:
		return "fixed"
	case BandwidthAuto:
		return bandwidthAutoToken
	case BandwidthNormalReference:
		return bandwidthNormalReferenceToken
	}
	return fmt.Sprintf("BandwidthKind(%d)", int(k))
}

// BandwidthSpec says where the candidate kernel bandwidths come from:
// a grid to cross validate over, a single fixed value, or a rule of thumb
// applied to the pooled sample (Silverman for Auto, or the normal reference rule).
type BandwidthSpec struct {
	Kind   BandwidthKind
	Values []float64
}

func GridBandwidth(values ...float64) BandwidthSpec {
	return BandwidthSpec{Kind: BandwidthGrid, Values: values}
}

func FixedBandwidth(value float64) BandwidthSpec {
	return BandwidthSpec{Kind: BandwidthFixed, Values: []float64{value}}
}

func AutoBandwidth() BandwidthSpec {
	return BandwidthSpec{Kind: BandwidthAuto}
}

func NormalReferenceBandwidth() BandwidthSpec {
	return BandwidthSpec{Kind: BandwidthNormalReference}
}

// FromRule reports whether the bandwidth is derived from the data instead of listed.
func (b BandwidthSpec) FromRule() bool {
	return b.Kind == BandwidthAuto || b.Kind == BandwidthNormalReference
}

// UnmarshalYAML accepts "auto", "normal_reference", a single number, or a list of numbers.
func (b *BandwidthSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		switch strings.ToLower(strings.TrimSpace(value.Value)) {
		case bandwidthAutoToken:
			*b = AutoBandwidth()
			return nil
		case bandwidthNormalReferenceToken:
			*b = NormalReferenceBandwidth()
			return nil
		}
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("bandwidth must be %q, %q, a number or a list: %w",
				bandwidthAutoToken, bandwidthNormalReferenceToken, err)
		}
		*b = FixedBandwidth(v)
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := value.Decode(&vs); err != nil {
			return err
		}
		*b = GridBandwidth(vs...)
		return nil
	}
	return fmt.Errorf("bandwidth: unsupported yaml node at line %d", value.Line)
}

func (b BandwidthSpec) MarshalYAML() (interface{}, error) {
	switch b.Kind {
	case BandwidthAuto:
		return bandwidthAutoToken, nil
	case BandwidthNormalReference:
		return bandwidthNormalReferenceToken, nil
	case BandwidthFixed:
		if len(b.Values) == 1 {
			return b.Values[0], nil
		}
	}
	return b.Values, nil
}
