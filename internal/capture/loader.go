package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

const responseSuffix = "_response.json"

// LoadError reports a capture file that could not be read or parsed. One side
// failing does not fail the comparison; the caller projects the other side
// and marks this one absent.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Capture is one side of a comparison case: the response_data payload plus
// metadata that stays outside the diff.
type Capture struct {
	APIName      string
	Data         gjson.Result
	Endpoint     string
	Timestamp    string
	ResponseTime *float64
	OK           bool
	Err          error
}

// Loaded reports whether the capture file was read and parsed.
func (c Capture) Loaded() bool {
	return c.Err == nil
}

// Pair is the two captures of one logical test case.
type Pair struct {
	FileKey string
	Left    Capture
	Right   Capture
}

// LoadPair loads the first two response files of a case folder. The folder
// name is the fileKey. Fewer than two response files is an error for the
// whole case; a single unreadable file is not.
func (s *Scanner) LoadPair(fileKey string) (*Pair, error) {
	folder := filepath.Join(s.resultsDir, fileKey)
	files, err := responseFiles(folder)
	if err != nil {
		return nil, fmt.Errorf("folder not found: %s", fileKey)
	}
	if len(files) < 2 {
		return nil, fmt.Errorf("not enough response files for comparison in %s", fileKey)
	}

	leftName := apiName(files[0], fileKey)
	rightName := apiName(files[1], fileKey)
	if rightName == leftName {
		// Two filenames can derive the same label when one lacks the fileKey
		// prefix; labels must stay distinct or per-API maps collapse.
		rightName += "_2"
	}

	pair := &Pair{
		FileKey: fileKey,
		Left:    loadCapture(filepath.Join(folder, files[0]), leftName),
		Right:   loadCapture(filepath.Join(folder, files[1]), rightName),
	}
	return pair, nil
}

func loadCapture(path, api string) Capture {
	c := Capture{APIName: api, OK: true}

	raw, err := os.ReadFile(path)
	if err != nil {
		c.Err = &LoadError{File: filepath.Base(path), Err: err}
		return c
	}
	if !gjson.ValidBytes(raw) {
		c.Err = &LoadError{File: filepath.Base(path), Err: fmt.Errorf("invalid JSON")}
		return c
	}

	parsed := gjson.ParseBytes(raw)
	if success := parsed.Get("success"); success.Exists() {
		c.OK = success.Bool()
	}
	c.Endpoint = parsed.Get("api_endpoint").String()
	c.Timestamp = parsed.Get("timestamp").String()
	if t := parsed.Get("processing_time_seconds"); t.Exists() {
		seconds := t.Float()
		c.ResponseTime = &seconds
	} else if t := parsed.Get("response_time_ms"); t.Exists() {
		seconds := t.Float() / 1000
		c.ResponseTime = &seconds
	}
	c.Data = parsed.Get("response_data")
	return c
}

// apiName derives the API label from a capture filename, e.g.
// case42_remote_response.json with fileKey case42 yields "remote".
func apiName(filename, fileKey string) string {
	name := strings.TrimSuffix(filename, responseSuffix)
	return strings.TrimPrefix(name, fileKey+"_")
}

func responseFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), responseSuffix) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
