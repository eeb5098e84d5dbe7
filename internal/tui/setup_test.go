package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/mb/internal/budget"
	"github.com/theirongolddev/mb/internal/config"
	"github.com/theirongolddev/mb/internal/money"
)

func TestParseTargets(t *testing.T) {
	text := `
# priority order
Rent = 700
Food: 250,50
  Fun Money = 12.345
`
	got, err := ParseTargets(text)
	if err != nil {
		t.Fatalf("ParseTargets: %v", err)
	}
	want := []config.TargetConfig{
		{Name: "Rent", Monthly: money.FromCents(700_00)},
		{Name: "Food", Monthly: money.FromCents(250_50)},
		{Name: "Fun Money", Monthly: money.FromCents(12_35)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d targets, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("target %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseTargets_Errors(t *testing.T) {
	for _, text := range []string{"Rent 700", "Rent = lots", "ok = 1\nRent ="} {
		if _, err := ParseTargets(text); err == nil {
			t.Errorf("ParseTargets(%q) succeeded, want error", text)
		}
	}
}

func TestFormatTargetsRoundTrip(t *testing.T) {
	targets := []config.TargetConfig{
		{Name: "Rent", Monthly: money.FromCents(700_00)},
		{Name: "Food", Monthly: money.FromCents(5)},
	}
	text := FormatTargets(targets)
	if text != "Rent = 700.00\nFood = 0.05" {
		t.Fatalf("FormatTargets = %q", text)
	}
	back, err := ParseTargets(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || back[0] != targets[0] || back[1] != targets[1] {
		t.Fatalf("round trip = %+v", back)
	}
}

func TestSetupApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := newSetupValues(cfg)
	v.unallocated = "  Pool "
	v.currency = "USD"
	v.theme = "tokyo-night"
	v.targets = "Rent = 700\nFood = 250"

	got, err := v.apply(cfg)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Budgets.Unallocated != "Pool" || got.Money.Currency != "USD" || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("apply = %+v", got)
	}
	if len(got.Budgets.Targets) != 2 || got.Budgets.Targets[1].Name != "Food" {
		t.Fatalf("targets = %+v", got.Budgets.Targets)
	}
}

func TestSetupApply_RejectsInvalidTargets(t *testing.T) {
	cfg := config.DefaultConfig()
	v := newSetupValues(cfg)
	v.unallocated = "Pool"

	v.targets = "Rent = 700\nRent = 100"
	if _, err := v.apply(cfg); !errors.Is(err, budget.ErrDuplicateTarget) {
		t.Errorf("duplicate: err = %v", err)
	}
	v.targets = "Pool = 100"
	if _, err := v.apply(cfg); !errors.Is(err, budget.ErrTargetIsPool) {
		t.Errorf("pool as target: err = %v", err)
	}
	v.targets = "Rent = 0"
	if _, err := v.apply(cfg); !errors.Is(err, budget.ErrNonPositiveRate) {
		t.Errorf("zero rate: err = %v", err)
	}
}

func TestNewSetupValuesPrefill(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Budgets.Targets = []config.TargetConfig{{Name: "Rent", Monthly: money.FromCents(1_00)}}
	v := newSetupValues(cfg)
	if !strings.Contains(v.targets, "Rent = 1.00") || !v.confirm {
		t.Fatalf("values = %+v", v)
	}
	if newSetupForm(&v) == nil {
		t.Fatal("newSetupForm returned nil")
	}
}
