package record

import (
	"fmt"
	"strconv"
)

// Field names, which double as column names in the historias table.
const (
	ID                     = "id"
	Nombre                 = "nombre"
	DNI                    = "dni"
	Edad                   = "edad"
	Domicilio              = "domicilio"
	ObraSocial             = "obra_social"
	NumeroBeneficio        = "numero_beneficio"
	Telefono               = "telefono"
	Email                  = "email"
	AntecedentesPersonales = "antecedentes_personales"
	AntecedentesFamiliares = "antecedentes_familiares"
	ExamenFisico           = "examen_fisico"
	DiagnosticoPresuntivo  = "diagnostico_presuntivo"
	EvolucionSeguimiento   = "evolucion_seguimiento"
	MotivoConsulta         = "motivo_consulta"
)

// Columns is the fixed positional order of a record.
var Columns = []string{
	ID, Nombre, DNI, Edad, Domicilio, ObraSocial, NumeroBeneficio, Telefono, Email,
	AntecedentesPersonales, AntecedentesFamiliares, ExamenFisico, DiagnosticoPresuntivo,
	EvolucionSeguimiento, MotivoConsulta,
}

// DataColumns is Columns without the surrogate key.
var DataColumns = Columns[1:]

// Patient is one patient's clinical history.
// ID is zero until the store assigns one.
type Patient struct {
	ID                     int64  `yaml:"id,omitempty" json:"id"`
	Nombre                 string `yaml:"nombre" json:"nombre"`
	DNI                    string `yaml:"dni" json:"dni"`
	Edad                   string `yaml:"edad,omitempty" json:"edad"`
	Domicilio              string `yaml:"domicilio,omitempty" json:"domicilio"`
	ObraSocial             string `yaml:"obra_social,omitempty" json:"obra_social"`
	NumeroBeneficio        string `yaml:"numero_beneficio,omitempty" json:"numero_beneficio"`
	Telefono               string `yaml:"telefono,omitempty" json:"telefono"`
	Email                  string `yaml:"email,omitempty" json:"email"`
	AntecedentesPersonales string `yaml:"antecedentes_personales,omitempty" json:"antecedentes_personales"`
	AntecedentesFamiliares string `yaml:"antecedentes_familiares,omitempty" json:"antecedentes_familiares"`
	ExamenFisico           string `yaml:"examen_fisico,omitempty" json:"examen_fisico"`
	DiagnosticoPresuntivo  string `yaml:"diagnostico_presuntivo,omitempty" json:"diagnostico_presuntivo"`
	EvolucionSeguimiento   string `yaml:"evolucion_seguimiento,omitempty" json:"evolucion_seguimiento"`
	MotivoConsulta         string `yaml:"motivo_consulta,omitempty" json:"motivo_consulta"`
}

// fields returns pointers to the text fields in DataColumns order.
func (p *Patient) fields() []*string {
	return []*string{
		&p.Nombre, &p.DNI, &p.Edad, &p.Domicilio, &p.ObraSocial, &p.NumeroBeneficio,
		&p.Telefono, &p.Email, &p.AntecedentesPersonales, &p.AntecedentesFamiliares,
		&p.ExamenFisico, &p.DiagnosticoPresuntivo, &p.EvolucionSeguimiento, &p.MotivoConsulta,
	}
}

// DataValues returns the non-key values in DataColumns order.
func (p Patient) DataValues() []string {
	ptrs := p.fields()
	out := make([]string, len(ptrs))
	for i, v := range ptrs {
		out[i] = *v
	}
	return out
}

// Values returns the full positional row, id first.
func (p Patient) Values() []string {
	return append([]string{strconv.FormatInt(p.ID, 10)}, p.DataValues()...)
}

// Get returns the value of a named field. Unknown names return "" and false.
func (p Patient) Get(name string) (string, bool) {
	if name == ID {
		return strconv.FormatInt(p.ID, 10), true
	}
	for i, col := range DataColumns {
		if col == name {
			return *p.fields()[i], true
		}
	}
	return "", false
}

// FromMap builds a record from field-name keyed values. The id key is ignored;
// missing keys stay empty.
func FromMap(data map[string]string) Patient {
	var p Patient
	for i, ptr := range p.fields() {
		*ptr = data[DataColumns[i]]
	}
	return p
}

// Map returns the non-key values keyed by field name.
func (p Patient) Map() map[string]string {
	out := make(map[string]string, len(DataColumns))
	for i, v := range p.DataValues() {
		out[DataColumns[i]] = v
	}
	return out
}

// FromValues builds a record from a full positional row as produced by Values.
func FromValues(values []string) (Patient, error) {
	if len(values) != len(Columns) {
		return Patient{}, fmt.Errorf("record row has %d values, want %d", len(values), len(Columns))
	}
	id, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return Patient{}, fmt.Errorf("record row id %q: %w", values[0], err)
	}
	p := Patient{ID: id}
	for i, ptr := range p.fields() {
		*ptr = values[i+1]
	}
	return p, nil
}

// IsZero reports whether no field at all is set.
func (p Patient) IsZero() bool {
	return p == Patient{}
}
