package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/model"
)

//go:embed occupations.yaml
var defaultOccupations []byte

type occupationFile struct {
	Occupations []occupationEntry `yaml:"occupations"`
}

type occupationEntry struct {
	Code      string `yaml:"code"`
	Title     string `yaml:"title"`
	Interest  string `yaml:"interest"`
	Secondary string `yaml:"secondary"`
}

// parseOccupations decodes and validates a seed file. Unknown keys are
// rejected so typos do not silently drop a column.
func parseOccupations(r io.Reader) ([]model.Occupation, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file occupationFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed file is empty")
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Occupations))
	out := make([]model.Occupation, 0, len(file.Occupations))
	for i, e := range file.Occupations {
		code := strings.TrimSpace(e.Code)
		title := strings.TrimSpace(e.Title)
		if code == "" || title == "" {
			return nil, fmt.Errorf("entry %d: code and title are required", i)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("entry %d: duplicate code %s", i, code)
		}
		seen[code] = struct{}{}

		interest := catalog.InterestCode(strings.ToUpper(e.Interest))
		if !interest.Valid() {
			return nil, fmt.Errorf("entry %d (%s): invalid interest %q", i, code, e.Interest)
		}

		o := model.Occupation{Code: code, Title: title, InterestCode: string(interest)}
		if e.Secondary != "" {
			secondary := catalog.InterestCode(strings.ToUpper(e.Secondary))
			if !secondary.Valid() || secondary == interest {
				return nil, fmt.Errorf("entry %d (%s): invalid secondary interest %q", i, code, e.Secondary)
			}
			s := string(secondary)
			o.SecondaryInterestCode = &s
		}
		out = append(out, o)
	}
	return out, nil
}
