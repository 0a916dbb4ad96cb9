// Package form models the patient form as a set of uniform fields.
//
// Each input control implements FormField, so the form can read, fill and
// clear every control the same way regardless of its kind.
package form

import (
	"strings"

	"github.com/roach88/consultorio/internal/record"
)

// FormField is one input control on the patient form.
type FormField interface {
	Name() string
	Value() string
	SetValue(v string)
	Clear()
}

// TextField is a single-line input. Surrounding whitespace is trimmed on
// read; inner spacing is kept so stored values load and save unchanged.
type TextField struct {
	name  string
	value string
}

// NewTextField returns an empty single-line field.
func NewTextField(name string) *TextField {
	return &TextField{name: name}
}

func (f *TextField) Name() string      { return f.name }
func (f *TextField) Value() string     { return strings.TrimSpace(f.value) }
func (f *TextField) SetValue(v string) { f.value = v }
func (f *TextField) Clear()            { f.value = "" }

// TextArea is a multi-line input. Inner newlines are kept; surrounding
// whitespace is trimmed on read.
type TextArea struct {
	name  string
	value string
}

// NewTextArea returns an empty multi-line field.
func NewTextArea(name string) *TextArea {
	return &TextArea{name: name}
}

func (a *TextArea) Name() string      { return a.name }
func (a *TextArea) Value() string     { return strings.TrimSpace(a.value) }
func (a *TextArea) SetValue(v string) { a.value = v }
func (a *TextArea) Clear()            { a.value = "" }

// Form holds one field per record column, in record order.
type Form struct {
	fields []FormField
	byName map[string]FormField
}

// New builds the patient form: text areas for the long free-text fields,
// single-line fields for everything else.
func New() *Form {
	f := &Form{byName: make(map[string]FormField, len(record.DataColumns))}
	for _, name := range record.DataColumns {
		var field FormField
		if record.IsLong(name) {
			field = NewTextArea(name)
		} else {
			field = NewTextField(name)
		}
		f.fields = append(f.fields, field)
		f.byName[name] = field
	}
	return f
}

// Field returns the named field, or nil.
func (f *Form) Field(name string) FormField {
	return f.byName[name]
}

// Fields returns the fields in record order.
func (f *Form) Fields() []FormField {
	return f.fields
}

// Set assigns a value to the named field. Unknown names report false.
func (f *Form) Set(name, value string) bool {
	field, ok := f.byName[name]
	if !ok {
		return false
	}
	field.SetValue(value)
	return true
}

// Data returns the current values keyed by field name.
func (f *Form) Data() map[string]string {
	data := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		data[field.Name()] = field.Value()
	}
	return data
}

// Record returns the current values as a record without an id.
func (f *Form) Record() record.Patient {
	return record.FromMap(f.Data())
}

// Load fills every field from a record.
func (f *Form) Load(p record.Patient) {
	for name, v := range p.Map() {
		f.Set(name, v)
	}
}

// Merge sets only the non-empty values of p, leaving other fields untouched.
func (f *Form) Merge(p record.Patient) {
	for name, v := range p.Map() {
		if v != "" {
			f.Set(name, v)
		}
	}
}

// Clear empties every field.
func (f *Form) Clear() {
	for _, field := range f.fields {
		field.Clear()
	}
}
