package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is the extracted summary of one specification.
// Field order is the serialized key order.
type Record struct {
	Inputs   []Input   `json:"inputs"`
	Outputs  []Output  `json:"outputs"`
	Triggers []Trigger `json:"triggers"`
}

// Input is a declared input stream and its type as written.
type Input struct {
	Name string `json:"name"`
	Type string `json:"type_"`
}

// Output is a named output whose value is a comparison.
type Output struct {
	Variable   string `json:"variable"`
	Comparison string `json:"comparison"`
}

// Trigger is a trigger condition and its message.
type Trigger struct {
	Condition string `json:"condition"`
	Message   string `json:"message"`
}

// Assemble packages projected lists into a Record. Nil lists become empty
// so that every key serializes as an array.
func Assemble(inputs []Input, outputs []Output, triggers []Trigger) *Record {
	if inputs == nil {
		inputs = []Input{}
	}
	if outputs == nil {
		outputs = []Output{}
	}
	if triggers == nil {
		triggers = []Trigger{}
	}
	return &Record{Inputs: inputs, Outputs: outputs, Triggers: triggers}
}

// Marshal serializes the record as indented JSON.
// Comparison operators and '&' are written as-is, not HTML-escaped.
func (r *Record) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Assemble(r.Inputs, r.Outputs, r.Triggers)); err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	// Encode terminates the value with a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
