package utils

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gonz247/commentgenerator/internal/logger"
)

const vocabularyColumn = "name"

// WriteVocabularyCSV writes a single name column.
func WriteVocabularyCSV(w io.Writer, names []string) error {
	log := logger.New("utils").File("vocabulary_io").Function("WriteVocabularyCSV")

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{vocabularyColumn}); err != nil {
		return log.Err("failed to write csv header", err)
	}
	for _, name := range names {
		if err := writer.Write([]string{name}); err != nil {
			return log.Err("failed to write vocabulary term", err, "name", name)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return log.Err("failed to flush csv", err)
	}
	return nil
}

// ReadVocabularyCSV reads the name column, or the first column when no
// header is named "name". Blank cells are ignored.
func ReadVocabularyCSV(r io.Reader) ([]string, error) {
	log := logger.New("utils").File("vocabulary_io").Function("ReadVocabularyCSV")

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, log.Err("failed to read vocabulary csv", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyImport
	}

	column := 0
	start := 0
	if i, ok := mapColumns(records[0])[vocabularyColumn]; ok {
		column = i
		start = 1
	}

	names := []string{}
	for _, record := range records[start:] {
		if column >= len(record) {
			continue
		}
		if name := strings.TrimSpace(record[column]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func WriteVocabularyJSON(w io.Writer, names []string) error {
	if names == nil {
		names = []string{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(names); err != nil {
		return logger.New("utils").File("vocabulary_io").Function("WriteVocabularyJSON").
			Err("failed to encode vocabulary", err)
	}
	return nil
}

// ReadVocabularyJSON accepts an array of strings or an array of objects with
// a name field.
func ReadVocabularyJSON(r io.Reader) ([]string, error) {
	log := logger.New("utils").File("vocabulary_io").Function("ReadVocabularyJSON")

	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyImport
		}
		return nil, log.Err("failed to decode vocabulary json", err)
	}

	names := []string{}
	for _, element := range raw {
		var name string
		if err := json.Unmarshal(element, &name); err != nil {
			var entry struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(element, &entry); err != nil {
				log.Warn("skipping malformed vocabulary entry", "entry", string(element))
				continue
			}
			name = entry.Name
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
