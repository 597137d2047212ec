package scenarios

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/enginewatch/internal/models"
	"github.com/miradorstack/enginewatch/internal/utils"
)

// Scenario describes a simulated fault: what an operator would observe and
// what the alert should report.
type Scenario struct {
	Key            string              `yaml:"key"`
	Name           string              `yaml:"name"`
	Symptoms       string              `yaml:"symptoms"`
	Irregularities []string            `yaml:"irregularities"`
	Cause          models.FailureCause `yaml:"cause"`
	Severity       models.Status       `yaml:"severity"`
	Info           []string            `yaml:"info"`
}

// Params are the operator-chosen readings for a simulation.
type Params struct {
	Temperature float64
	RPM         float64
	Variation   float64
}

// DefaultParams matches the simulator's initial controls.
func DefaultParams() Params {
	return Params{Temperature: 110, RPM: 2800, Variation: 20}
}

// Catalog is an ordered set of scenarios keyed by Key.
type Catalog struct {
	scenarios map[string]Scenario
	order     []string
	logger    *slog.Logger
}

// CatalogFile is the YAML root structure.
type CatalogFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load returns the built-in catalog merged with the scenarios in path.
// Entries with an existing key replace the built-in. An empty path or a
// missing file yields the built-in catalog.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	catalog := Builtin(logger)
	if path == "" {
		return catalog, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			catalog.logger.Debug("scenario pack not found, using built-ins", slog.String("path", path))
			return catalog, nil
		}
		return nil, err
	}
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scenario pack: %w", err)
	}
	for _, scenario := range file.Scenarios {
		if err := catalog.add(scenario); err != nil {
			return nil, fmt.Errorf("scenario pack %s: %w", path, err)
		}
	}
	return catalog, nil
}

// Builtin returns the standard fault scenarios.
func Builtin(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	catalog := &Catalog{scenarios: make(map[string]Scenario), logger: logger}
	for _, scenario := range builtinScenarios {
		_ = catalog.add(scenario)
	}
	return catalog
}

func (c *Catalog) add(s Scenario) error {
	s.Key = strings.ToLower(strings.TrimSpace(s.Key))
	if s.Key == "" {
		return errors.New("scenario key is required")
	}
	if s.Name == "" {
		s.Name = s.Key
	}
	if s.Severity == "" {
		s.Severity = models.StatusWarning
	}
	c.scenarios[s.Key] = s
	c.order = appendUnique(c.order, s.Key)
	return nil
}

// Lookup resolves a scenario by key (case-insensitive).
func (c *Catalog) Lookup(key string) (Scenario, error) {
	normalised := strings.ToLower(strings.TrimSpace(key))
	if s, ok := c.scenarios[normalised]; ok {
		return s, nil
	}
	known := append([]string(nil), c.order...)
	sort.Strings(known)
	return Scenario{}, utils.NewAppError("scenarios.Lookup",
		fmt.Sprintf("unknown fault %q (known: %s)", key, strings.Join(known, ", ")), nil)
}

// Keys lists scenario keys in registration order.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.order...)
}

// Alert renders the manual alert for a simulation with params p.
func (s Scenario) Alert(p Params) models.Alert {
	message := fmt.Sprintf("🔧 SIMULATION: %s\n• Symptoms: %s\n• Temperature: %s°C\n• RPM: %s",
		s.Name, s.Symptoms, formatNumber(p.Temperature), formatNumber(p.RPM))

	flags := make([]string, 0, len(s.Irregularities))
	for _, text := range s.Irregularities {
		flags = append(flags, strings.ReplaceAll(text, "{variation}", formatNumber(p.Variation)))
	}

	return models.Alert{
		Category:       models.AlertManual,
		Message:        message,
		Irregularities: models.Reported(flags...),
		Principal:      s.Cause,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func appendUnique(existing []string, additions ...string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[item] = struct{}{}
	}
	for _, item := range additions {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		existing = append(existing, item)
		seen[item] = struct{}{}
	}
	return existing
}
