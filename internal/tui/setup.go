package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/mb/internal/config"
	"github.com/theirongolddev/mb/internal/money"
	"github.com/theirongolddev/mb/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// Currencies offered by the setup form.
var Currencies = []string{"EUR", "USD", "GBP", "CHF", "SEK", "NOK", "DKK", "PLN", "CZK", "JPY"}

// setupValues holds the values bound to the setup form fields.
type setupValues struct {
	moneyPath   string
	unallocated string
	account     string
	currency    string
	theme       string
	targets     string
	confirm     bool
}

func newSetupValues(cfg config.Config) setupValues {
	return setupValues{
		moneyPath:   cfg.Money.Path,
		unallocated: cfg.Budgets.Unallocated,
		account:     cfg.Import.Account,
		currency:    cfg.Money.Currency,
		theme:       cfg.Appearance.Theme,
		targets:     FormatTargets(cfg.Budgets.Targets),
		confirm:     true,
	}
}

func newSetupForm(v *setupValues) *huh.Form {
	notEmpty := func(what string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s must not be empty", what)
			}
			return nil
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to mb").
				Description("Transactions live in plain TOML files.\nBudgets are funded from an unallocated pool, month by month."),
			huh.NewInput().
				Title("Money directory").
				Description("Relative paths are resolved against the config file").
				Value(&v.moneyPath).
				Validate(notEmpty("money directory")),
			huh.NewSelect[string]().
				Title("Currency").
				Options(huh.NewOptions(Currencies...)...).
				Value(&v.currency),
			huh.NewInput().
				Title("Import account").
				Description("Account that imported bank statements are booked to").
				Value(&v.account).
				Validate(notEmpty("import account")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Unallocated budget").
				Description("Where new money waits until it is allocated").
				Value(&v.unallocated).
				Validate(notEmpty("unallocated budget")),
			huh.NewText().
				Title("Budget targets").
				Description("One per line, in priority order: Name = monthly amount").
				Value(&v.targets).
				Validate(func(s string) error {
					_, err := v.allocation(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.theme),
			huh.NewConfirm().
				Title("Save configuration?").
				Value(&v.confirm),
		),
	).WithTheme(huh.ThemeCharm())
}

// allocation checks the targets text the way allocation would see it.
func (v *setupValues) allocation(text string) ([]config.TargetConfig, error) {
	targets, err := ParseTargets(text)
	if err != nil {
		return nil, err
	}
	var cfg config.Config
	cfg.Budgets.Unallocated = strings.TrimSpace(v.unallocated)
	cfg.Budgets.Targets = targets
	if err := cfg.Allocation().Validate(); err != nil {
		return nil, err
	}
	return targets, nil
}

// apply writes the form values into cfg.
func (v *setupValues) apply(cfg config.Config) (config.Config, error) {
	targets, err := v.allocation(v.targets)
	if err != nil {
		return cfg, err
	}
	cfg.Money.Path = strings.TrimSpace(v.moneyPath)
	cfg.Money.Currency = v.currency
	cfg.Import.Account = strings.TrimSpace(v.account)
	cfg.Budgets.Unallocated = strings.TrimSpace(v.unallocated)
	cfg.Budgets.Targets = targets
	cfg.Appearance.Theme = v.theme
	return cfg, nil
}

// ErrSetupCancelled is returned by RunSetup when the user declines to save.
var ErrSetupCancelled = errors.New("setup cancelled")

// RunSetup runs the interactive setup form prefilled from cfg and returns
// the updated configuration. It does not save.
func RunSetup(cfg config.Config) (config.Config, error) {
	v := newSetupValues(cfg)
	if err := newSetupForm(&v).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cfg, ErrSetupCancelled
		}
		return cfg, err
	}
	if !v.confirm {
		return cfg, ErrSetupCancelled
	}
	return v.apply(cfg)
}

// ParseTargets parses one "Name = amount" target per line. Blank lines and
// lines starting with "#" are skipped; ":" works as separator too.
func ParseTargets(text string) ([]config.TargetConfig, error) {
	var targets []config.TargetConfig
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sep := strings.LastIndexAny(line, "=:")
		if sep < 0 {
			return nil, fmt.Errorf("line %d: expected \"Name = amount\"", n+1)
		}
		name := strings.TrimSpace(line[:sep])
		amount, err := money.Parse(line[sep+1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		targets = append(targets, config.TargetConfig{Name: name, Monthly: amount})
	}
	return targets, nil
}

// FormatTargets renders targets in the form ParseTargets reads.
func FormatTargets(targets []config.TargetConfig) string {
	lines := make([]string, len(targets))
	for i, t := range targets {
		text, _ := t.Monthly.MarshalText()
		lines[i] = fmt.Sprintf("%s = %s", t.Name, text)
	}
	return strings.Join(lines, "\n")
}
