// Package probe replays a set of questions against the backend and reports
// which answers met their expectations.
package probe

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/xonecas/tilawa/internal/api"
)

//go:embed cases.yaml
var defaultCases []byte

// ErrNoCases is returned when a case file holds nothing to run.
var ErrNoCases = errors.New("no probe cases")

// Case is one question with what its answer must satisfy. At least one
// expectation must be set.
type Case struct {
	Query          string `yaml:"query"`
	ExpectIntent   string `yaml:"expect_intent,omitempty"`
	ExpectContains string `yaml:"expect_contains,omitempty"`
	ExpectFarewell *bool  `yaml:"expect_farewell,omitempty"`
}

// Suite is a case file.
type Suite struct {
	Cases []Case `yaml:"cases"`
}

// Asker is the part of the backend client the probe needs.
type Asker interface {
	Ask(ctx context.Context, question string) (*api.AskResponse, error)
}

// Result is the outcome of one case.
type Result struct {
	Case     Case
	Passed   bool
	Reason   string
	Response *api.AskResponse
	Elapsed  time.Duration
}

// Report summarizes a run.
type Report struct {
	Results []Result
	Passed  int
	Failed  int
}

// Total returns the number of cases run.
func (r Report) Total() int {
	return len(r.Results)
}

// Parse decodes a case file. Unknown fields are rejected so typos in
// expectation names do not silently pass.
func Parse(data []byte) (Suite, error) {
	var suite Suite
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return Suite{}, ErrNoCases
		}
		return Suite{}, fmt.Errorf("parse cases: %w", err)
	}

	if len(suite.Cases) == 0 {
		return Suite{}, ErrNoCases
	}
	for i, c := range suite.Cases {
		if strings.TrimSpace(c.Query) == "" {
			return Suite{}, fmt.Errorf("case %d: empty query", i+1)
		}
		if c.ExpectIntent == "" && c.ExpectContains == "" && c.ExpectFarewell == nil {
			return Suite{}, fmt.Errorf("case %d (%q): no expectation", i+1, c.Query)
		}
	}
	return suite, nil
}

// LoadFile reads a case file, or the built-in cases when path is empty.
func LoadFile(path string) (Suite, error) {
	if path == "" {
		return DefaultSuite()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("read cases: %w", err)
	}
	return Parse(data)
}

// DefaultSuite returns the built-in cases.
func DefaultSuite() (Suite, error) {
	return Parse(defaultCases)
}

// Run asks every case in order. A failed request fails its case and the
// run continues.
func Run(ctx context.Context, asker Asker, suite Suite) Report {
	var report Report
	for _, c := range suite.Cases {
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		resp, err := asker.Ask(ctx, c.Query)
		result := Result{Case: c, Response: resp, Elapsed: time.Since(start)}
		if err != nil {
			result.Reason = err.Error()
		} else {
			result.Reason = check(c, resp)
			result.Passed = result.Reason == ""
		}

		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
		log.Debug().
			Str("query", c.Query).
			Bool("passed", result.Passed).
			Dur("elapsed", result.Elapsed).
			Msg("probe case")
		report.Results = append(report.Results, result)
	}
	return report
}

// check returns why resp does not satisfy c, or "" if it does.
func check(c Case, resp *api.AskResponse) string {
	if c.ExpectIntent != "" && resp.Intent != c.ExpectIntent {
		return fmt.Sprintf("got intent %q, expected %q", resp.Intent, c.ExpectIntent)
	}
	if c.ExpectContains != "" && !strings.Contains(resp.Answer, c.ExpectContains) {
		return fmt.Sprintf("answer does not contain %q", c.ExpectContains)
	}
	if c.ExpectFarewell != nil && resp.Farewell != *c.ExpectFarewell {
		return fmt.Sprintf("got farewell %v, expected %v", resp.Farewell, *c.ExpectFarewell)
	}
	return ""
}

// Print writes the report to w.
func (r Report) Print(w io.Writer) {
	blue := color.New(color.FgBlue, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	blue.Fprintln(w, "===== TILAWA ACCURACY PROBE =====")
	fmt.Fprintln(w)

	for i, res := range r.Results {
		fmt.Fprintf(w, "Case #%d: %q\n", i+1, res.Case.Query)
		if res.Passed {
			green.Fprintf(w, "  ✓ PASSED (%s)\n", res.Elapsed.Round(time.Millisecond))
		} else {
			red.Fprintf(w, "  ✗ FAILED: %s\n", res.Reason)
			if res.Response != nil {
				fmt.Fprintf(w, "    Answer: %s\n", res.Response.Answer)
				if res.Response.Confidence != "" {
					fmt.Fprintf(w, "    Confidence: %s\n", res.Response.Confidence)
				}
			}
		}
		fmt.Fprintln(w)
	}

	blue.Fprintln(w, "===== SUMMARY =====")
	fmt.Fprintf(w, "Total: %d\n", r.Total())
	if r.Total() == 0 {
		return
	}
	green.Fprintf(w, "Passed: %d (%.1f%%)\n", r.Passed, percent(r.Passed, r.Total()))
	if r.Failed > 0 {
		red.Fprintf(w, "Failed: %d (%.1f%%)\n", r.Failed, percent(r.Failed, r.Total()))
	}
}

func percent(n, total int) float64 {
	return float64(n) / float64(total) * 100
}
