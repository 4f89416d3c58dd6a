// Package query holds the in-memory views the record listing and the case
// autocomplete are built from. Every function works on an already loaded
// slice and never touches storage.
package query

import (
	"sort"
	"strings"

	. "github.com/gonz247/commentgenerator/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const DefaultPageSize = 20

type Options struct {
	Search      string
	Relatedness Relatedness
	Page        int
	PageSize    int
}

type Result struct {
	Assessments []*Assessment `json:"assessments"`
	Total       int           `json:"total"`
	Visible     int           `json:"visible"`
	Page        int           `json:"page"`
	HasMore     bool          `json:"hasMore"`
}

// LatestPerCase keeps the newest assessment of every case, ordered by case
// id with English collation.
func LatestPerCase(assessments []*Assessment) []*Assessment {
	latest := map[string]*Assessment{}
	for _, assessment := range assessments {
		existing, ok := latest[assessment.CaseID]
		if !ok || assessment.Timestamp > existing.Timestamp {
			latest[assessment.CaseID] = assessment
		}
	}

	result := make([]*Assessment, 0, len(latest))
	for _, assessment := range latest {
		result = append(result, assessment)
	}

	collator := collate.New(language.English)
	sort.SliceStable(result, func(i, j int) bool {
		if c := collator.CompareString(result[i].CaseID, result[j].CaseID); c != 0 {
			return c < 0
		}
		return result[i].CaseID < result[j].CaseID
	})

	return result
}

// SearchCases filters the latest assessment per case by case id.
func SearchCases(assessments []*Assessment, term string) []*Assessment {
	cases := LatestPerCase(assessments)
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return cases
	}

	matches := []*Assessment{}
	for _, assessment := range cases {
		if strings.Contains(strings.ToLower(assessment.CaseID), term) {
			matches = append(matches, assessment)
		}
	}
	return matches
}

// Search matches term case-insensitively against case id, products, events
// and the case type label.
func Search(assessments []*Assessment, term string) []*Assessment {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return assessments
	}

	matches := []*Assessment{}
	for _, assessment := range assessments {
		fields := []string{
			assessment.CaseID,
			assessment.ProductNames,
			assessment.Events,
			assessment.CaseType.Label(),
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), term) {
				matches = append(matches, assessment)
				break
			}
		}
	}
	return matches
}

func FilterByRelatedness(assessments []*Assessment, relatedness Relatedness) []*Assessment {
	if relatedness == "" {
		return assessments
	}

	matches := []*Assessment{}
	for _, assessment := range assessments {
		if assessment.Relatedness == relatedness {
			matches = append(matches, assessment)
		}
	}
	return matches
}

// SortNewestFirst returns a copy ordered by timestamp, newest first. Ties
// keep the higher id first.
func SortNewestFirst(assessments []*Assessment) []*Assessment {
	sorted := append([]*Assessment(nil), assessments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp > sorted[j].Timestamp
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

// Window exposes the first page*pageSize items of an already filtered set.
// Asking for the next page widens the window instead of replacing it.
func Window(assessments []*Assessment, page, pageSize int) Result {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(assessments)
	visible := total
	if page <= total/pageSize {
		visible = page * pageSize
	}

	items := assessments[:visible]
	if items == nil {
		items = []*Assessment{}
	}

	return Result{
		Assessments: items,
		Total:       total,
		Visible:     visible,
		Page:        page,
		HasMore:     visible < total,
	}
}

// Apply runs search, relatedness filter, newest-first sort and the paging
// window, in that order.
func Apply(assessments []*Assessment, opts Options) Result {
	filtered := Search(assessments, opts.Search)
	filtered = FilterByRelatedness(filtered, opts.Relatedness)
	return Window(SortNewestFirst(filtered), opts.Page, opts.PageSize)
}
