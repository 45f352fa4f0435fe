package probe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/xonecas/tilawa/internal/api"
)

type fakeAsker map[string]*api.AskResponse

func (f fakeAsker) Ask(ctx context.Context, question string) (*api.AskResponse, error) {
	resp, ok := f[question]
	if !ok {
		return nil, api.ErrNetwork
	}
	return resp, nil
}

func TestDefaultSuiteParses(t *testing.T) {
	suite, err := DefaultSuite()
	if err != nil {
		t.Fatalf("DefaultSuite() error: %v", err)
	}
	if len(suite.Cases) == 0 {
		t.Fatal("built-in suite is empty")
	}
}

func TestParseRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"no cases", "cases: []"},
		{"unknown field", "cases:\n  - query: a\n    expect_intnet: greeting\n"},
		{"no expectation", "cases:\n  - query: a\n"},
		{"empty query", "cases:\n  - query: ' '\n    expect_contains: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() succeeded, want error")
			}
		})
	}
}

func TestParseEmptyIsNoCases(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrNoCases) {
		t.Errorf("Parse(nil) error = %v, want ErrNoCases", err)
	}
}

func TestRunCountsResults(t *testing.T) {
	yes := true
	suite := Suite{Cases: []Case{
		{Query: "سورتیں", ExpectContains: "114"},
		{Query: "سلام", ExpectIntent: "greeting"},
		{Query: "حافظ", ExpectIntent: "farewell", ExpectFarewell: &yes},
		{Query: "پارے", ExpectContains: "30"},
		{Query: "نامعلوم", ExpectContains: "x"},
	}}
	asker := fakeAsker{
		"سورتیں": {Answer: "قرآن میں 114 سورتیں ہیں"},
		"سلام":   {Answer: "وعلیکم السلام", Intent: "greeting"},
		"حافظ":   {Answer: "اللہ حافظ", Intent: "farewell", Farewell: false},
		"پارے":   {Answer: "پارے تیس ہیں", Confidence: "low"},
	}

	report := Run(context.Background(), asker, suite)

	if report.Total() != 5 || report.Passed != 2 || report.Failed != 3 {
		t.Fatalf("total/passed/failed = %d/%d/%d, want 5/2/3", report.Total(), report.Passed, report.Failed)
	}
	if !strings.Contains(report.Results[2].Reason, "farewell") {
		t.Errorf("reason = %q, want a farewell mismatch", report.Results[2].Reason)
	}
	if report.Results[4].Response != nil {
		t.Error("failed request should have no response")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := Run(ctx, fakeAsker{}, Suite{Cases: []Case{{Query: "a", ExpectContains: "b"}}})
	if report.Total() != 0 {
		t.Errorf("ran %d cases after cancel", report.Total())
	}
}

func TestReportPrint(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	report := Report{
		Results: []Result{
			{Case: Case{Query: "a"}, Passed: true},
			{Case: Case{Query: "b"}, Reason: "answer does not contain \"x\"", Response: &api.AskResponse{Answer: "y", Confidence: "low"}},
		},
		Passed: 1,
		Failed: 1,
	}

	var buf bytes.Buffer
	report.Print(&buf)
	out := buf.String()

	for _, want := range []string{"✓ PASSED", "✗ FAILED", "Answer: y", "Confidence: low", "Total: 2", "Passed: 1 (50.0%)", "Failed: 1 (50.0%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
