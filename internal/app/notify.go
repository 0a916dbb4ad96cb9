package app

import (
	"errors"
	"fmt"

	"github.com/roach88/consultorio/internal/apperr"
)

// User-facing messages.
const (
	MsgSaved             = "Historia clínica guardada"
	MsgUpdated           = "Historia clínica actualizada"
	MsgDeleted           = "Historia clínica borrada"
	MsgConfirmDelete     = "¿Querés borrar esta historia clínica?"
	MsgSelectToUpdate    = "Seleccioná una historia para actualizar"
	MsgSelectToDelete    = "Seleccioná una historia para borrar"
	MsgSelectToPDF       = "Seleccioná una historia para generar PDF"
	MsgNotFound          = "La historia seleccionada ya no existe"
	MsgBackupUnavailable = "Faltan las credenciales de backup"
	MsgBackupDone        = "Copia de seguridad subida"
)

var errNoExporter = errors.New("no exporter configured")

// Level grades a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is what the user is shown after an action.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Info builds a success notification.
func Info(title, message string) Notification {
	return Notification{Level: LevelInfo, Title: title, Message: message}
}

// Notify converts an action error into a notification. Recoverable kinds
// (validation, missing selection) are warnings; everything else is an error.
func Notify(err error) Notification {
	if err == nil {
		return Notification{}
	}

	msg := apperr.MessageOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return Notification{Level: LevelWarning, Title: "Validación", Message: msg}
	case apperr.KindInvalidInput:
		return Notification{Level: LevelWarning, Title: "Atención", Message: msg}
	case apperr.KindStorage:
		return Notification{Level: LevelError, Title: "Base de datos", Message: withCause(err)}
	case apperr.KindRender:
		return Notification{Level: LevelError, Title: "PDF", Message: withCause(err)}
	case apperr.KindBackup:
		return Notification{Level: LevelError, Title: "Backup", Message: withCause(err)}
	}
	return Notification{Level: LevelError, Title: "Error", Message: err.Error()}
}

// withCause appends the underlying failure to the message.
func withCause(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return apperr.MessageOf(err)
}
