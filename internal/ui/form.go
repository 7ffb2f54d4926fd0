// Package ui holds the headless stand-ins for the entry form, the workout
// list and user notices.
package ui

import (
	"sync"

	"github.com/claude/mapty/internal/models"
)

// Field names as the client knows them.
const (
	FieldType      = "type"
	FieldDistance  = "distance"
	FieldDuration  = "duration"
	FieldCadence   = "cadence"
	FieldElevation = "elevation"
)

// FormValues are the raw field contents, exactly as typed.
type FormValues struct {
	Kind      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

type FormState struct {
	Visible bool       `json:"visible"`
	Focused string     `json:"focused,omitempty"`
	Fields  []string   `json:"fields"`
	Values  FormValues `json:"values"`
}

// Form is the workout entry form. It starts hidden with Running selected.
type Form struct {
	mu      sync.Mutex
	visible bool
	focused string
	values  FormValues
}

func NewForm() *Form {
	return &Form{values: FormValues{Kind: string(models.Running)}}
}

func (f *Form) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = true
}

// Hide hides the form and drops focus. Field values are kept; see Clear.
func (f *Form) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = false
	f.focused = ""
}

func (f *Form) FocusDistance() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = FieldDistance
}

// SelectKind changes the type selector, which swaps the cadence and
// elevation rows.
func (f *Form) SelectKind(kind models.Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Kind = string(kind)
}

func (f *Form) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// SetValues replaces the field contents. An empty v.Kind keeps the selected
// type.
func (f *Form) SetValues(v FormValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.Kind == "" {
		v.Kind = f.values.Kind
	}
	f.values = v
}

// Clear empties every numeric field. The selected type stays.
func (f *Form) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = FormValues{Kind: f.values.Kind}
}

func (f *Form) Snapshot() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState{
		Visible: f.visible,
		Focused: f.focused,
		Fields:  visibleFields(f.values.Kind),
		Values:  f.values,
	}
}

func visibleFields(kind string) []string {
	extra := FieldCadence
	if k, err := models.ParseKind(kind); err == nil && k == models.Cycling {
		extra = FieldElevation
	}
	return []string{FieldType, FieldDistance, FieldDuration, extra}
}
