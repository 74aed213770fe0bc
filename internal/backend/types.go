package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Placeholder is rendered for absent or null values.
const Placeholder = "-"

// Value is an opaque JSON scalar from the backend. It is only ever displayed
// or compared, never interpreted.
type Value struct {
	raw json.RawMessage
}

// NewValue wraps a raw JSON literal.
func NewValue(raw string) Value {
	return Value{raw: json.RawMessage(raw)}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNull() {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// IsNull reports whether the value is absent or JSON null.
func (v Value) IsNull() bool {
	t := bytes.TrimSpace(v.raw)
	return len(t) == 0 || string(t) == "null"
}

// Raw returns the compact JSON text, or "" when null.
func (v Value) Raw() string {
	if v.IsNull() {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v.raw); err != nil {
		return string(bytes.TrimSpace(v.raw))
	}
	return buf.String()
}

// String renders the value for display: strings unquoted, everything else as
// its JSON literal, null as the placeholder dash.
func (v Value) String() string {
	if v.IsNull() {
		return Placeholder
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		return s
	}
	return v.Raw()
}

// truthy follows the loose boolean semantics the backend relies on: true,
// non-zero numbers and non-empty strings count as set.
func (v Value) truthy() bool {
	if v.IsNull() {
		return false
	}
	var b bool
	if err := json.Unmarshal(v.raw, &b); err == nil {
		return b
	}
	var f float64
	if err := json.Unmarshal(v.raw, &f); err == nil {
		return f != 0
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		return s != ""
	}
	return true
}

// integer returns the value as an int, or 0 if it is not numeric.
func (v Value) integer() int {
	if v.IsNull() {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v.raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}

// Snapshot is a point-in-time view of the item under review.
type Snapshot struct {
	ID              Value
	SubID           Value
	CodeID          Value
	CurrentFilename string
	ReviewPhase     int // 0 when absent
	ShowAnalysis    bool
	Conflict        bool

	// Fields holds every key the backend sent, including the ones above.
	Fields map[string]Value
}

// Field returns the raw value for key; a missing key yields a null Value.
func (s *Snapshot) Field(key string) Value {
	if s == nil || s.Fields == nil {
		return Value{}
	}
	return s.Fields[key]
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	fields := make(map[string]Value)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*s = Snapshot{
		ID:           fields["id"],
		SubID:        fields["sub_id"],
		CodeID:       fields["code_id"],
		ReviewPhase:  fields["review_phase"].integer(),
		ShowAnalysis: fields["show_analysis"].truthy(),
		Conflict:     fields["conflict"].truthy(),
		Fields:       fields,
	}
	if name := fields["current_filename"]; !name.IsNull() {
		s.CurrentFilename = name.String()
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(s.Fields)+7)
	for k, v := range s.Fields {
		out[k] = v
	}
	out["id"] = s.ID
	out["sub_id"] = s.SubID
	out["code_id"] = s.CodeID
	if s.CurrentFilename != "" {
		out["current_filename"] = NewValue(strconv.Quote(s.CurrentFilename))
	}
	if s.ReviewPhase != 0 {
		out["review_phase"] = NewValue(strconv.Itoa(s.ReviewPhase))
	}
	out["show_analysis"] = NewValue(strconv.FormatBool(s.ShowAnalysis))
	out["conflict"] = NewValue(strconv.FormatBool(s.Conflict))
	return json.Marshal(out)
}

// Progress describes backend batch progress in percent.
type Progress struct {
	FileProgress  float64 `json:"file_progress"`
	TotalProgress float64 `json:"total_progress"`
}

// Status is the acknowledgement body of control and submit calls.
type Status struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ProcessedItem identifies an object the backend has finished.
type ProcessedItem struct {
	ID    Value `json:"id"`
	SubID Value `json:"sub_id"`
}
