// Package profilecsv reads and writes the tabular profile format:
//
//	name,interests,friends,age,location,occupation,activities
//
// List cells hold values separated by ", ". Columns are located by header
// name, so their order in the input does not matter.
package profilecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// ListSeparator joins list values inside a single cell.
const ListSeparator = ", "

// Header is the canonical column order used by Write.
var Header = []string{"name", "interests", "friends", "age", "location", "occupation", "activities"}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Read parses every row into a profile. Rows are returned in input order.
func Read(r io.Reader) ([]domain.Profile, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = false
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty input")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0)
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		profile, err := parseRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// Write emits the header followed by one row per profile.
func Write(w io.Writer, profiles []domain.Profile) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range profiles {
		record := []string{
			p.ID,
			strings.Join(p.Interests, ListSeparator),
			strings.Join(p.Friends, ListSeparator),
			strconv.Itoa(p.Age),
			p.Location,
			p.Occupation,
			strings.Join(p.Activities, ListSeparator),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", p.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

type jsonProfile struct {
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Location   string   `json:"location"`
	Occupation string   `json:"occupation"`
	Interests  []string `json:"interests"`
	Activities []string `json:"activities"`
	Friends    []string `json:"friends"`
}

// WriteJSON emits profiles as an indented JSON array using the same field
// names as the CSV header.
func WriteJSON(w io.Writer, profiles []domain.Profile) error {
	records := make([]jsonProfile, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, jsonProfile{
			Name:       p.ID,
			Age:        p.Age,
			Location:   p.Location,
			Occupation: p.Occupation,
			Interests:  nonNil(p.Interests),
			Activities: nonNil(p.Activities),
			Friends:    nonNil(p.Friends),
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	return nil
}

// SplitList splits a list cell. Blank cells yield an empty list.
func SplitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	parts := strings.Split(cell, ListSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range Header {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return columns, nil
}

func parseRecord(record []string, columns map[string]int) (domain.Profile, error) {
	cell := func(name string) string {
		i := columns[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	id := strings.TrimSpace(cell("name"))
	if id == "" {
		return domain.Profile{}, fmt.Errorf("empty name")
	}
	age, err := strconv.Atoi(strings.TrimSpace(cell("age")))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("malformed age %q for %s", cell("age"), id)
	}
	if age < 0 {
		return domain.Profile{}, fmt.Errorf("negative age %d for %s", age, id)
	}

	return domain.Profile{
		ID:         id,
		Age:        age,
		Location:   strings.TrimSpace(cell("location")),
		Occupation: strings.TrimSpace(cell("occupation")),
		Interests:  SplitList(cell("interests")),
		Activities: SplitList(cell("activities")),
		Friends:    SplitList(cell("friends")),
	}, nil
}
