package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the canonical answer schema.
type AskResponse struct {
	Answer      string   `json:"answer"`
	Fact        string   `json:"fact,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Farewell    bool     `json:"farewell,omitempty"`
	Intent      string   `json:"intent,omitempty"`
	Confidence  string   `json:"confidence,omitempty"`
}

func (r *AskResponse) validate() error {
	if strings.TrimSpace(r.Answer) == "" {
		return fmt.Errorf("%w: missing answer", ErrMalformedResponse)
	}
	r.Suggestions = nonEmpty(r.Suggestions)
	return nil
}

// Category is a group of canned questions.
type Category struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Icon      string   `json:"icon"`
	Questions []string `json:"questions"`
}

type categoryPayload struct {
	Title     string   `json:"title"`
	Icon      string   `json:"icon"`
	Questions []string `json:"questions"`
}

func categoriesFromPayload(raw map[string]categoryPayload) []Category {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cats := make([]Category, 0, len(ids))
	for _, id := range ids {
		p := raw[id]
		questions := nonEmpty(p.Questions)
		if len(questions) == 0 {
			continue
		}
		title := strings.TrimSpace(p.Title)
		if title == "" {
			title = id
		}
		cats = append(cats, Category{
			ID:        id,
			Title:     title,
			Icon:      p.Icon,
			Questions: questions,
		})
	}
	return cats
}

// dailyFactPayload accepts both {"fact": "..."} and {"facts": [...]}.
type dailyFactPayload struct {
	Fact  *string         `json:"fact"`
	Facts json.RawMessage `json:"facts"`
}

func (p dailyFactPayload) facts() []string {
	var out []string
	if len(p.Facts) > 0 {
		var list []string
		if err := json.Unmarshal(p.Facts, &list); err == nil {
			out = append(out, list...)
		} else {
			var single string
			if err := json.Unmarshal(p.Facts, &single); err == nil {
				out = append(out, single)
			}
		}
	}
	if p.Fact != nil {
		out = append(out, *p.Fact)
	}
	return nonEmpty(out)
}

// QuestionsResponse is the body of GET /popular-questions.
type QuestionsResponse struct {
	Questions []string `json:"questions"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	Question string `json:"question"`
	Preview  string `json:"preview"`
}

// SearchResponse is the body returned by POST /search.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
