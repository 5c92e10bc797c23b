package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedAnswer is returned when an answer payload is neither a string,
// an integral number nor an array of strings.
var ErrUnsupportedAnswer = errors.New("answer must be a string, an integer or an array of strings")

type answerShape uint8

const (
	shapeNone answerShape = iota
	shapeString
	shapeNumber
	shapeList
)

// Answer is a single answer value. Its JSON form is one of: a string (chosen
// option id or free text), an integer (rating) or an array of strings (ranked
// selection). How it is interpreted depends on the question it answers.
type Answer struct {
	shape  answerShape
	str    string
	number int
	list   []string
}

// Choice builds an option-id answer.
func Choice(optionID string) Answer { return Answer{shape: shapeString, str: optionID} }

// Text builds a free-text answer.
func Text(s string) Answer { return Answer{shape: shapeString, str: s} }

// Rating builds a numeric rating answer.
func Rating(n int) Answer { return Answer{shape: shapeNumber, number: n} }

// Selection builds a ranked multi-select answer.
func Selection(ids ...string) Answer {
	list := make([]string, len(ids))
	copy(list, ids)
	return Answer{shape: shapeList, list: list}
}

// IsZero reports whether no value has been set.
func (a Answer) IsZero() bool { return a.shape == shapeNone }

// AsString returns the string value when the answer holds one.
func (a Answer) AsString() (string, bool) { return a.str, a.shape == shapeString }

// AsNumber returns the integer value when the answer holds one.
func (a Answer) AsNumber() (int, bool) { return a.number, a.shape == shapeNumber }

// AsList returns a copy of the selection when the answer holds one.
func (a Answer) AsList() ([]string, bool) {
	if a.shape != shapeList {
		return nil, false
	}
	out := make([]string, len(a.list))
	copy(out, a.list)
	return out, true
}

// Equal reports whether two answers hold the same value.
func (a Answer) Equal(b Answer) bool {
	if a.shape != b.shape || a.str != b.str || a.number != b.number || len(a.list) != len(b.list) {
		return false
	}
	for i := range a.list {
		if a.list[i] != b.list[i] {
			return false
		}
	}
	return true
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.shape {
	case shapeString:
		return json.Marshal(a.str)
	case shapeNumber:
		return json.Marshal(a.number)
	case shapeList:
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Answer{shape: shapeString, str: s}
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return ErrUnsupportedAnswer
		}
		if list == nil {
			list = []string{}
		}
		*a = Answer{shape: shapeList, list: list}
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return ErrUnsupportedAnswer
		}
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return fmt.Errorf("%w: %s is not an integer", ErrUnsupportedAnswer, data)
		}
		*a = Answer{shape: shapeNumber, number: int(f)}
	}
	return nil
}

// AnswerSet maps question ids to answers. It never holds entries for
// unanswered questions.
type AnswerSet map[string]Answer

// Clone returns an independent copy of the set.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		if list, ok := v.AsList(); ok {
			v = Selection(list...)
		}
		out[k] = v
	}
	return out
}

// Subset returns the answers whose ids are listed, skipping missing ones.
func (s AnswerSet) Subset(ids []string) AnswerSet {
	out := make(AnswerSet, len(ids))
	for _, id := range ids {
		if v, ok := s[id]; ok {
			out[id] = v
		}
	}
	return out
}

// Merge copies every entry of other into s, overwriting existing ids.
func (s AnswerSet) Merge(other AnswerSet) {
	for k, v := range other {
		s[k] = v
	}
}
