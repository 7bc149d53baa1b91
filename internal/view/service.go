package view

import (
	"errors"
	"log/slog"

	"apidiff/internal/capture"
	"apidiff/internal/diff"
)

// DifferenceEntry is the wire form of one difference record with its rendered
// line on each side.
type DifferenceEntry struct {
	Path      string      `json:"path"`
	Kind      diff.Kind   `json:"kind"`
	Left      interface{} `json:"left"`
	Right     interface{} `json:"right"`
	LineLeft  *int        `json:"line_left"`
	LineRight *int        `json:"line_right"`
}

// Comparison is the presentation boundary contract for one fileKey,
// regardless of transport.
type Comparison struct {
	Success         bool               `json:"success"`
	Error           string             `json:"error,omitempty"`
	HasDifferences  bool               `json:"has_differences"`
	DifferenceCount int                `json:"difference_count"`
	Differences     []DifferenceEntry  `json:"differences"`
	LeftContent     []string           `json:"left_content"`
	RightContent    []string           `json:"right_content"`
	LeftAPI         string             `json:"left_api"`
	RightAPI        string             `json:"right_api"`
	LeftError       string             `json:"left_error,omitempty"`
	RightError      string             `json:"right_error,omitempty"`
	ResponseTimes   map[string]float64 `json:"response_times,omitempty"`
	Stale           bool               `json:"stale,omitempty"`
}

// Service runs the diff-and-project pipeline for a selected case. Each
// selection is one synchronous pass; the pipeline is CPU-bound and holds no
// global mutable state, only the structures handed between its stages.
type Service struct {
	scanner  *capture.Scanner
	differ   *diff.Differ
	selector Selector
}

func NewService(scanner *capture.Scanner, differ *diff.Differ) *Service {
	return &Service{scanner: scanner, differ: differ}
}

// Compare loads both sides of a case, diffs and projects them, and assembles
// the presentation payload. Failures are reported as structured results, not
// errors: the caller always gets a Comparison it can render or display.
func (s *Service) Compare(fileKey string) *Comparison {
	token := s.selector.Next()
	result := s.compare(fileKey)
	// A newer selection may have started while this one ran; the result is
	// still returned but flagged so the surface skips rendering it.
	result.Stale = !s.selector.Latest(token)
	return result
}

func (s *Service) compare(fileKey string) *Comparison {
	pair, err := s.scanner.LoadPair(fileKey)
	if err != nil {
		return failure(err.Error())
	}

	result := &Comparison{
		Success:     true,
		LeftAPI:     pair.Left.APIName,
		RightAPI:    pair.Right.APIName,
		Differences: make([]DifferenceEntry, 0),
	}
	if pair.Left.ResponseTime != nil || pair.Right.ResponseTime != nil {
		result.ResponseTimes = make(map[string]float64)
		if pair.Left.ResponseTime != nil {
			result.ResponseTimes[pair.Left.APIName] = *pair.Left.ResponseTime
		}
		if pair.Right.ResponseTime != nil {
			result.ResponseTimes[pair.Right.APIName] = *pair.Right.ResponseTime
		}
	}

	leftLoaded, rightLoaded := pair.Left.Loaded(), pair.Right.Loaded()
	if !leftLoaded && !rightLoaded {
		return failure("could not load either response file: " + pair.Left.Err.Error())
	}

	if !leftLoaded || !rightLoaded {
		// One side absent: still project the loaded side so the reviewer can
		// inspect it. No records are produced against a placeholder.
		leftProj, rightProj := diff.ProjectAbsent(), diff.ProjectAbsent()
		if leftLoaded {
			leftProj = diff.Project(pair.Left.Data)
		} else {
			result.LeftError = pair.Left.Err.Error()
		}
		if rightLoaded {
			rightProj = diff.Project(pair.Right.Data)
		} else {
			result.RightError = pair.Right.Err.Error()
		}
		result.LeftContent = leftProj.Texts()
		result.RightContent = rightProj.Texts()
		return result
	}

	records, err := s.differ.Diff(pair.Left.Data, pair.Right.Data)
	if err != nil {
		var malformed *diff.MalformedInputError
		if errors.As(err, &malformed) {
			return failure(malformed.Error())
		}
		slog.Error("diff pipeline failed", "file_key", fileKey, "error", err)
		return failure("comparison failed")
	}

	leftProj := diff.Project(pair.Left.Data)
	rightProj := diff.Project(pair.Right.Data)
	model := NewModel(records, leftProj, rightProj)

	for _, entry := range model.Navigation() {
		result.Differences = append(result.Differences, DifferenceEntry{
			Path:      entry.Record.Path.String(),
			Kind:      entry.Record.Kind,
			Left:      entry.Record.LeftValue(),
			Right:     entry.Record.RightValue(),
			LineLeft:  entry.LineLeft,
			LineRight: entry.LineRight,
		})
	}
	result.HasDifferences = len(records) > 0
	result.DifferenceCount = len(records)
	result.LeftContent = leftProj.Texts()
	result.RightContent = rightProj.Texts()
	return result
}

// Scanner exposes the underlying scanner for structure and stats endpoints.
func (s *Service) Scanner() *capture.Scanner {
	return s.scanner
}

func failure(message string) *Comparison {
	return &Comparison{
		Success:      false,
		Error:        message,
		Differences:  make([]DifferenceEntry, 0),
		LeftContent:  make([]string, 0),
		RightContent: make([]string, 0),
	}
}
