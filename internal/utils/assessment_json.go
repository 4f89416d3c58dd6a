package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"
)

func WriteAssessmentsJSON(w io.Writer, assessments []*Assessment) error {
	log := logger.New("utils").File("assessment_json").Function("WriteAssessmentsJSON")

	if assessments == nil {
		assessments = []*Assessment{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(assessments); err != nil {
		return log.Err("failed to encode assessments", err, "count", len(assessments))
	}
	return nil
}

// jsonImportRecord accepts the timestamp as a number of milliseconds or as
// any string the date validator understands.
type jsonImportRecord struct {
	importRecord
	Timestamp json.RawMessage `json:"timestamp"`
}

// ReadAssessmentsJSON expects a top level array. Elements that fail to decode
// or validate are skipped and counted.
func ReadAssessmentsJSON(r io.Reader, now time.Time) (ImportBatch, error) {
	log := logger.New("utils").File("assessment_json").Function("ReadAssessmentsJSON")

	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return ImportBatch{}, ErrEmptyImport
		}
		return ImportBatch{}, log.Err("failed to decode json import", err)
	}

	batch := ImportBatch{Assessments: []*Assessment{}}
	dates := NewDateValidator()

	for i, element := range raw {
		assessment, err := parseAssessmentJSON(element, dates, now)
		if err != nil {
			log.Warn("skipping malformed json record", "index", i, "error", err)
			batch.Skipped++
			continue
		}
		batch.Assessments = append(batch.Assessments, assessment)
	}

	log.Info("parsed json import", "imported", len(batch.Assessments), "skipped", batch.Skipped)
	return batch, nil
}

func parseAssessmentJSON(element json.RawMessage, dates *DateValidator, now time.Time) (*Assessment, error) {
	var record jsonImportRecord
	if err := json.Unmarshal(element, &record); err != nil {
		return nil, err
	}

	timestamp, err := decodeTimestamp(record.Timestamp, dates, now)
	if err != nil {
		return nil, err
	}
	record.importRecord.Timestamp = timestamp

	return record.toAssessment()
}

func decodeTimestamp(raw json.RawMessage, dates *DateValidator, now time.Time) (int64, error) {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return now.UnixMilli(), nil
	}

	if strings.HasPrefix(value, `"`) {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, err
		}
		return dates.ParseTimestamp(text, now.UnixMilli())
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return 0, fmt.Errorf("timestamp: %w", err)
	}
	return dates.ParseTimestamp(number.String(), now.UnixMilli())
}
