package tax

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/finsim/rate"
)

//go:embed corporate.json
var corporate []byte

// Corporate returns the Dutch corporate income tax bands from 2019.
func Corporate() BandsByYear {
	y, err := Parse(corporate)
	if err != nil {
		panic(err)
	}
	return y
}

type yearConfig struct {
	Year  int          `yaml:"year"`
	Bands []bandConfig `yaml:"bands"`
}

type bandConfig struct {
	Above number `yaml:"above"`
	Rate  number `yaml:"rate"`
}

// number decodes a YAML or JSON number exactly.
type number struct {
	decimal.Decimal
}

func (n *number) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q", node.Line, node.Value)
	}
	n.Decimal = d
	return nil
}

// Parse reads bands by year from a YAML or JSON document such as
//
//	[{"year": 2025, "bands": [{"above": 0, "rate": 0.19}, {"above": 200000, "rate": 0.258}]}]
func Parse(data []byte) (BandsByYear, error) {
	var years []yearConfig
	if err := yaml.Unmarshal(data, &years); err != nil {
		return BandsByYear{}, fmt.Errorf("parse tax bands: %w", err)
	}

	bands := make(map[int]Bands, len(years))
	for _, y := range years {
		if _, ok := bands[y.Year]; ok {
			return BandsByYear{}, fmt.Errorf("year %d: duplicate year", y.Year)
		}
		thresholds := make([]rate.Threshold[decimal.Decimal], 0, len(y.Bands))
		for _, b := range y.Bands {
			thresholds = append(thresholds, rate.Threshold[decimal.Decimal]{Lower: b.Above.Decimal, Value: b.Rate.Decimal})
		}
		b, err := NewBands(thresholds...)
		if err != nil {
			return BandsByYear{}, fmt.Errorf("year %d: %w", y.Year, err)
		}
		bands[y.Year] = b
	}
	return NewBandsByYear(bands), nil
}

// LoadFile reads bands by year from a file.
func LoadFile(path string) (BandsByYear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BandsByYear{}, err
	}
	return Parse(data)
}
