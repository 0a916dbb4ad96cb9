package record

// Labels maps field names to the headings shown to the user.
var Labels = map[string]string{
	ID:                     "ID",
	Nombre:                 "Nombre",
	DNI:                    "DNI",
	Edad:                   "Edad",
	Domicilio:              "Domicilio",
	ObraSocial:             "Obra Social",
	NumeroBeneficio:        "N° Beneficio",
	Telefono:               "Teléfono",
	Email:                  "Email",
	AntecedentesPersonales: "Antecedentes Personales",
	AntecedentesFamiliares: "Antecedentes Familiares",
	ExamenFisico:           "Examen Físico",
	DiagnosticoPresuntivo:  "Diagnóstico Presuntivo",
	EvolucionSeguimiento:   "Evolución/Seguimiento",
	MotivoConsulta:         "Motivo de Consulta",
}

// Label returns the user-facing heading for a field, or the name itself.
func Label(name string) string {
	if l, ok := Labels[name]; ok {
		return l
	}
	return name
}

// Short fields of the document's two-column block, left column then right.
var (
	LeftColumn  = []string{DNI, Edad, Domicilio, ObraSocial}
	RightColumn = []string{NumeroBeneficio, Telefono, Email, MotivoConsulta}
)

// LongFields are the free-text sections, in document order.
var LongFields = []string{
	AntecedentesPersonales,
	AntecedentesFamiliares,
	ExamenFisico,
	DiagnosticoPresuntivo,
	EvolucionSeguimiento,
}

// ListColumns are the columns shown in the record table.
var ListColumns = []string{Nombre, DNI, Edad, ObraSocial, NumeroBeneficio, Telefono, MotivoConsulta}

// IsLong reports whether name is a multi-line free-text field.
func IsLong(name string) bool {
	for _, f := range LongFields {
		if f == name {
			return true
		}
	}
	return false
}
