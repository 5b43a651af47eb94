package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PricingRules controls the import-time price markup. Products filed under a
// "shape" breadcrumb keep their source price.
type PricingRules struct {
	Markup MarkupRule `yaml:"markup"`
	Shape  ShapeRule  `yaml:"shape"`
}

type MarkupRule struct {
	Enabled bool    `yaml:"enabled"`
	Percent float64 `yaml:"percent"`
}

type ShapeRule struct {
	Phrases []string `yaml:"phrases"`
	Words   []string `yaml:"words"`
}

func DefaultPricingRules() PricingRules {
	return PricingRules{
		Markup: MarkupRule{Enabled: true, Percent: 20},
		Shape: ShapeRule{
			Phrases: []string{"по форме"},
			Words:   []string{"форма", "формы"},
		},
	}
}

func (r PricingRules) MarkupPercent() decimal.Decimal {
	return decimal.NewFromFloat(r.Markup.Percent)
}

func (r PricingRules) Validate() error {
	if r.Markup.Percent <= -100 {
		return fmt.Errorf("markup percent must be greater than -100, got %v", r.Markup.Percent)
	}
	return nil
}

// LoadPricingRules reads YAML rules from path on top of the defaults. A
// missing file yields the defaults.
func LoadPricingRules(path string) (PricingRules, error) {
	rules := DefaultPricingRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rules, nil
		}
		return rules, fmt.Errorf("failed to read pricing rules %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse pricing rules %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}
