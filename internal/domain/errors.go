package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")

	// ErrValidation regla de negocio violada (cantidades, saldo, proveedor, variante).
	ErrValidation = errors.New("validación de negocio")
	// ErrPermission rol del actor incompatible con el estado del documento.
	ErrPermission = errors.New("permiso denegado")
	// ErrDeleteGuard el documento no se puede eliminar en su estado actual.
	ErrDeleteGuard = errors.New("eliminación no permitida")
)

// Validation envuelve ErrValidation con un mensaje legible para el usuario.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Permission envuelve ErrPermission con un mensaje legible.
func Permission(msg string) error {
	return fmt.Errorf("%w: %s", ErrPermission, msg)
}

// DeleteGuard envuelve ErrDeleteGuard con un mensaje legible.
func DeleteGuard(msg string) error {
	return fmt.Errorf("%w: %s", ErrDeleteGuard, msg)
}

// Message devuelve la parte legible de un error de dominio (sin el prefijo del sentinel).
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range []error{ErrValidation, ErrPermission, ErrDeleteGuard} {
		if errors.Is(err, sentinel) {
			prefix := sentinel.Error() + ": "
			msg := err.Error()
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
