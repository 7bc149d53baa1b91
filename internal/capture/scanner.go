package capture

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Case folder statuses.
const (
	StatusReady      = "ready"
	StatusIncomplete = "incomplete"
	StatusError      = "error"
)

// CaseFile describes one comparison case in the sidebar structure.
type CaseFile struct {
	FolderName    string `json:"folder_name"`
	SubFilename   string `json:"sub_filename"`
	FileKey       string `json:"file_key"`
	ResponseCount int    `json:"response_count"`
	HasComparison bool   `json:"has_comparison"`
	Status        string `json:"status"`
}

// Stats summarizes the scanned results directory.
type Stats struct {
	TotalFolders int     `json:"total_folders"`
	TotalFiles   int     `json:"total_files"`
	ReadyFiles   int     `json:"ready_files"`
	ErrorFiles   int     `json:"error_files"`
	SuccessRate  float64 `json:"success_rate"`
}

// ResponseTimeSummary averages response times across cases where both sides
// succeeded.
type ResponseTimeSummary struct {
	AvgLeft  *float64 `json:"avg_left"`
	AvgRight *float64 `json:"avg_right"`
}

// Scanner lists comparison cases out of a results directory. Each immediate
// subdirectory holding *_response.json files is one case; the folder name is
// its fileKey, and the part before the first underscore groups cases in the
// sidebar.
type Scanner struct {
	resultsDir string
}

func NewScanner(resultsDir string) *Scanner {
	return &Scanner{resultsDir: resultsDir}
}

// Structure returns the case folders grouped by main folder, each group
// sorted by sub filename.
func (s *Scanner) Structure() (map[string][]CaseFile, error) {
	structure := make(map[string][]CaseFile)

	entries, err := os.ReadDir(s.resultsDir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderName := entry.Name()
		folderPath := filepath.Join(s.resultsDir, folderName)

		files, err := responseFiles(folderPath)
		if err != nil || len(files) == 0 {
			continue
		}

		mainFolder := folderName
		subFilename := folderName
		if idx := strings.Index(folderName, "_"); idx >= 0 {
			mainFolder = folderName[:idx]
			subFilename = folderName[idx+1:]
		}

		structure[mainFolder] = append(structure[mainFolder], CaseFile{
			FolderName:    folderName,
			SubFilename:   subFilename,
			FileKey:       folderName,
			ResponseCount: len(files),
			HasComparison: len(files) >= 2,
			Status:        folderStatus(folderPath, files),
		})
	}

	for mainFolder := range structure {
		group := structure[mainFolder]
		sort.Slice(group, func(i, j int) bool { return group[i].SubFilename < group[j].SubFilename })
	}
	return structure, nil
}

// folderStatus is a quick health check without running the full pipeline.
func folderStatus(folderPath string, files []string) string {
	if len(files) < 2 {
		return StatusIncomplete
	}

	valid := 0
	for _, name := range files {
		raw, err := os.ReadFile(filepath.Join(folderPath, name))
		if err != nil || !gjson.ValidBytes(raw) {
			return StatusError
		}
		if success := gjson.GetBytes(raw, "success"); success.Exists() && !success.Bool() {
			return StatusError
		}
		valid++
	}
	if valid >= 2 {
		return StatusReady
	}
	return StatusError
}

// Stats aggregates the structure into overview numbers.
func (s *Scanner) Stats() (Stats, error) {
	structure, err := s.Structure()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalFolders: len(structure)}
	for _, group := range structure {
		for _, file := range group {
			stats.TotalFiles++
			switch file.Status {
			case StatusReady:
				stats.ReadyFiles++
			case StatusError:
				stats.ErrorFiles++
			}
		}
	}
	if stats.TotalFiles > 0 {
		stats.SuccessRate = math.Round(float64(stats.ReadyFiles)/float64(stats.TotalFiles)*100*100) / 100
	}
	return stats, nil
}

// AverageResponseTimes averages both sides over cases where both captures
// loaded and reported success. Cases with a failed side are skipped entirely
// so one slow failure does not skew the average.
func (s *Scanner) AverageResponseTimes() ResponseTimeSummary {
	var leftTimes, rightTimes []float64

	structure, err := s.Structure()
	if err != nil {
		slog.Warn("failed to scan results directory", "error", err)
		return ResponseTimeSummary{}
	}

	for _, group := range structure {
		for _, file := range group {
			if !file.HasComparison {
				continue
			}
			pair, err := s.LoadPair(file.FileKey)
			if err != nil {
				continue
			}
			if !pair.Left.Loaded() || !pair.Right.Loaded() || !pair.Left.OK || !pair.Right.OK {
				continue
			}
			if pair.Left.ResponseTime == nil || pair.Right.ResponseTime == nil {
				continue
			}
			leftTimes = append(leftTimes, *pair.Left.ResponseTime)
			rightTimes = append(rightTimes, *pair.Right.ResponseTime)
		}
	}

	return ResponseTimeSummary{
		AvgLeft:  average(leftTimes),
		AvgRight: average(rightTimes),
	}
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := math.Round(sum/float64(len(values))*100) / 100
	return &avg
}
