package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Nimos95/product-sandbox/internal/cohort"
	"github.com/Nimos95/product-sandbox/internal/report"
	"github.com/Nimos95/product-sandbox/internal/sim"
	"github.com/Nimos95/product-sandbox/internal/stats"
	"github.com/Nimos95/product-sandbox/internal/store"
)

func buildFixture(t *testing.T) string {
	t.Helper()

	p := sim.DefaultParams()
	p.Users = 800
	users, payments, err := sim.Generate(p)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	html, err := report.Build(report.Data{
		ScenarioName: "launch-plan",
		Params:       p,
		Metrics: store.Snapshot{
			TotalUsers:    800,
			Payers:        120,
			ConversionPct: 12.5,
			ARPU:          210.4,
		},
		AB:          stats.Compare(users, payments),
		LTV:         cohort.LTV(users, payments),
		Retention:   cohort.Retention(users, payments),
		GeneratedAt: time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	return html
}

func TestBuild(t *testing.T) {
	html := buildFixture(t)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"Product Sandbox Report",
		"launch-plan",
		"2025-06-01 12:00",
		"Scenario parameters",
		"Key metrics",
		"A/B test",
		"Cumulative LTV per cohort member",
		"Retention % of month-0 payers",
		"2025-01", // first cohort row
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestBuild_NoABBlockWithoutVariants(t *testing.T) {
	html, err := report.Build(report.Data{
		Params:      sim.DefaultParams(),
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if strings.Contains(html, "A/B test</h2>") {
		t.Error("A/B section rendered without any groups")
	}
	if strings.Contains(html, "Cumulative LTV") {
		t.Error("LTV table rendered without data")
	}
}
