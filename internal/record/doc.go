// Package record defines the patient clinical-history record and its fixed
// positional field order.
//
// Every flat rendering of a record (table row, CSV row, document input) uses
// Columns, in that order:
//
//	id, nombre, dni, edad, domicilio, obra_social, numero_beneficio, telefono,
//	email, antecedentes_personales, antecedentes_familiares, examen_fisico,
//	diagnostico_presuntivo, evolucion_seguimiento, motivo_consulta
//
// The record package performs no validation. See package validate.
package record
