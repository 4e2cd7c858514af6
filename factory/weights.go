/*
Package factory builds the bonus engine's external configuration.

PURPOSE:
  The seniority classifier (label -> tier) and the weight table (tier ->
  company/area split) are owned by HR, not by code. They are written in
  YAML or JSON, and this package turns them into a bonus.Calculator.

SCHEMA (YAML):
  sub_objective_policy: average_evaluated   # or require_all
  tiers:
    - tier: 1
      name: Junior
      company_weight: 20
      area_weight: 80
      labels: [trainee, junior]
    - tier: 2
      ...

VALIDATION:
  - at least one tier; tier numbers unique
  - company_weight + area_weight == 100 for every tier
  - a label belongs to exactly one tier
  - the lowest tier number is the fallback for unknown labels and tiers

USAGE:
  cfg, err := factory.LoadWeightConfig("weights.yaml")
  calc, err := cfg.NewCalculator()

SEE ALSO:
  - bonus/weights.go: TierTable
  - bonus/seniority.go: LabelClassifier
*/
package factory

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/generic"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// WeightConfig is the on-disk form of the tier table and classifier.
type WeightConfig struct {
	SubObjectivePolicy string       `json:"sub_objective_policy,omitempty" yaml:"sub_objective_policy,omitempty"`
	Tiers              []TierConfig `json:"tiers" yaml:"tiers"`
}

// TierConfig is one seniority tier.
type TierConfig struct {
	Tier          int      `json:"tier" yaml:"tier"`
	Name          string   `json:"name,omitempty" yaml:"name,omitempty"`
	CompanyWeight float64  `json:"company_weight" yaml:"company_weight"`
	AreaWeight    float64  `json:"area_weight" yaml:"area_weight"`
	Labels        []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// DefaultWeightsYAML is used when no weights file is configured.
const DefaultWeightsYAML = `
sub_objective_policy: average_evaluated
tiers:
  - tier: 1
    name: Junior
    company_weight: 20
    area_weight: 80
    labels: [trainee, intern, junior, jr]
  - tier: 2
    name: Semi-senior
    company_weight: 30
    area_weight: 70
    labels: [semi-senior, semisenior, ssr, mid]
  - tier: 3
    name: Senior
    company_weight: 40
    area_weight: 60
    labels: [senior, sr]
  - tier: 4
    name: Lead
    company_weight: 50
    area_weight: 50
    labels: [lead, tech lead, team lead, principal]
  - tier: 5
    name: Management
    company_weight: 60
    area_weight: 40
    labels: [manager, head, director, vp, c-level]
`

// =============================================================================
// PARSING
// =============================================================================

// DefaultWeightConfig returns the built-in table.
func DefaultWeightConfig() *WeightConfig {
	cfg, err := ParseWeightConfig([]byte(DefaultWeightsYAML))
	if err != nil {
		panic(fmt.Sprintf("built-in weight config is invalid: %v", err))
	}
	return cfg
}

// LoadWeightConfig reads a .json, .yaml or .yml file.
func LoadWeightConfig(path string) (*WeightConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weight config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseWeightConfigJSON(data)
	default:
		return ParseWeightConfig(data)
	}
}

// ParseWeightConfig parses YAML (JSON documents are valid YAML too, but are
// routed to the JSON decoder so field errors read naturally).
func ParseWeightConfig(data []byte) (*WeightConfig, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseWeightConfigJSON(data)
	}
	var cfg WeightConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse weight config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseWeightConfigJSON parses the JSON form.
func ParseWeightConfigJSON(data []byte) (*WeightConfig, error) {
	var cfg WeightConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse weight config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural rules listed in the package doc.
func (c *WeightConfig) Validate() error {
	if len(c.Tiers) == 0 {
		return fmt.Errorf("%w: weight config has no tiers", generic.ErrInvalidInput)
	}
	if c.SubObjectivePolicy != "" && !bonus.SubObjectivePolicy(c.SubObjectivePolicy).Valid() {
		return fmt.Errorf("%w: unknown sub_objective_policy %q", generic.ErrInvalidInput, c.SubObjectivePolicy)
	}

	seenTier := make(map[int]bool, len(c.Tiers))
	seenLabel := make(map[string]int)
	for _, t := range c.Tiers {
		if seenTier[t.Tier] {
			return fmt.Errorf("%w: tier %d declared twice", generic.ErrInvalidInput, t.Tier)
		}
		seenTier[t.Tier] = true

		if _, err := t.weights(); err != nil {
			return fmt.Errorf("tier %d: %w", t.Tier, err)
		}

		for _, label := range t.Labels {
			key := strings.ToLower(strings.TrimSpace(label))
			if key == "" {
				return fmt.Errorf("%w: tier %d has an empty label", generic.ErrInvalidInput, t.Tier)
			}
			if other, dup := seenLabel[key]; dup {
				return fmt.Errorf("%w: label %q in tiers %d and %d", generic.ErrInvalidInput, label, other, t.Tier)
			}
			seenLabel[key] = t.Tier
		}
	}
	return nil
}

func (t TierConfig) weights() (bonus.Weights, error) {
	company := generic.FromFloat(t.CompanyWeight)
	area := generic.FromFloat(t.AreaWeight)
	if !company.Valid || !area.Valid {
		return bonus.Weights{}, fmt.Errorf("%w: weights must be finite numbers", generic.ErrInvalidInput)
	}
	w := bonus.Weights{Company: company.Decimal, Area: area.Decimal}
	return w, w.Validate()
}

// =============================================================================
// BUILDING
// =============================================================================

// Build returns the weight table and classifier described by c.
func (c *WeightConfig) Build() (*bonus.TierTable, bonus.LabelClassifier, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	tiers := make(map[bonus.Tier]bonus.Weights, len(c.Tiers))
	labels := make(map[string]bonus.Tier)
	for _, t := range c.Tiers {
		w, _ := t.weights()
		tiers[bonus.Tier(t.Tier)] = w
		for _, label := range t.Labels {
			labels[label] = bonus.Tier(t.Tier)
		}
	}

	table, err := bonus.NewTierTable(tiers)
	if err != nil {
		return nil, nil, err
	}
	return table, bonus.NewLabelClassifier(labels), nil
}

// Policy returns the configured sub-objective policy, defaulting to averaging
// the evaluated children.
func (c *WeightConfig) Policy() bonus.SubObjectivePolicy {
	if c.SubObjectivePolicy == "" {
		return bonus.PolicyAverageEvaluated
	}
	return bonus.SubObjectivePolicy(c.SubObjectivePolicy)
}

// NewCalculator builds a bonus.Calculator from c. Extra options are applied
// after the configured policy, so callers may override it.
func (c *WeightConfig) NewCalculator(opts ...bonus.Option) (*bonus.Calculator, error) {
	table, classifier, err := c.Build()
	if err != nil {
		return nil, err
	}
	all := append([]bonus.Option{bonus.WithSubObjectivePolicy(c.Policy())}, opts...)
	return bonus.NewCalculator(classifier, table, all...)
}

// Sorted returns a copy of c with tiers in ascending order, for display.
func (c *WeightConfig) Sorted() WeightConfig {
	out := WeightConfig{SubObjectivePolicy: string(c.Policy()), Tiers: append([]TierConfig(nil), c.Tiers...)}
	sort.Slice(out.Tiers, func(i, j int) bool { return out.Tiers[i].Tier < out.Tiers[j].Tier })
	return out
}
