package review

import (
	"github.com/mcao2/relevance-review/internal/backend"
)

const (
	RestingTitle   = "Item Details"
	NoFileSelected = "No file selected"

	// AnalysisField is only rendered when the snapshot allows it.
	AnalysisField = "relevance_analysis"
)

// DisplayFields is the fixed order in which item fields are shown.
var DisplayFields = []string{
	"id",
	"sub_id",
	"code_id",
	"prompt_eval_count",
	"prompt_eval_duration",
	"eval_count",
	"eval_duration",
	"total_duration",
	"load_duration",
	"response",
	AnalysisField,
}

// Field is one rendered item field.
type Field struct {
	Key    string
	Value  string
	Hidden bool
}

// Banner describes the review-mode banner above the item.
type Banner struct {
	Visible bool
	Mode    Mode
	Phase   int
	Text    string
}

// Display is everything the reviewer sees about the current item.
type Display struct {
	Title    string
	Filename string
	Controls bool // decision buttons visible
	Banner   Banner
	Fields   []Field
}

// Field looks up a field by key.
func (d Display) Field(key string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Presenter derives display state from snapshots.
type Presenter struct {
	display Display
}

func NewPresenter() *Presenter {
	p := &Presenter{}
	p.Clear()
	return p
}

// Display returns a copy of the current display state.
func (p *Presenter) Display() Display {
	d := p.display
	d.Fields = append([]Field(nil), p.display.Fields...)
	return d
}

// Clear resets to the resting state and returns the keys whose text changed.
func (p *Presenter) Clear() []string {
	fields := make([]Field, len(DisplayFields))
	for i, key := range DisplayFields {
		fields[i] = Field{Key: key, Value: backend.Placeholder}
	}
	changed := p.diff(fields)

	p.display = Display{
		Title:    RestingTitle,
		Filename: NoFileSelected,
		Fields:   fields,
	}
	return changed
}

// Apply shows snap and returns the keys whose text changed. A nil snapshot
// is the same as Clear.
func (p *Presenter) Apply(snap *backend.Snapshot) []string {
	if snap == nil {
		return p.Clear()
	}

	mode := ModeOf(snap)
	phase := snap.ReviewPhase
	if phase == 0 {
		phase = 1
	}

	fields := make([]Field, len(DisplayFields))
	for i, key := range DisplayFields {
		if key == AnalysisField && !snap.ShowAnalysis {
			// drop any cached analysis along with hiding it
			fields[i] = Field{Key: key, Value: backend.Placeholder, Hidden: true}
			continue
		}
		fields[i] = Field{Key: key, Value: snap.Field(key).String()}
	}
	changed := p.diff(fields)

	filename := snap.CurrentFilename
	if filename == "" {
		filename = NoFileSelected
	}

	p.display = Display{
		Title:    "Current Item (" + mode.String() + ")",
		Filename: filename,
		Controls: true,
		Banner: Banner{
			Visible: true,
			Mode:    mode,
			Phase:   phase,
			Text:    mode.BannerText(),
		},
		Fields: fields,
	}
	return changed
}

func (p *Presenter) diff(next []Field) []string {
	var changed []string
	for _, f := range next {
		prev, ok := p.display.Field(f.Key)
		if f.Hidden {
			continue
		}
		if !ok || prev.Value != f.Value {
			changed = append(changed, f.Key)
		}
	}
	return changed
}
