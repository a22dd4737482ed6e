package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrNoActiveCustomer   = errors.New("no hay cliente activo")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrSubmissionInFlight = errors.New("ya hay un envío en curso para este cliente")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// MissingFieldsError indica que tras la resolución de fallbacks siguen
// faltando campos obligatorios para el envío. Fields usa los nombres del
// payload (customer_id, warehouse_id, address) para que el mensaje sea
// accionable.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "faltan campos requeridos: " + strings.Join(e.Fields, ", ")
}

// SubmissionError indica un rechazo del backend de ventas (timeout, error de
// validación remota o respuesta sin identificador). Message lleva el mensaje
// del servidor cuando está disponible.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	if e.Message == "" {
		return "el envío al backend de ventas falló"
	}
	return fmt.Sprintf("el envío al backend de ventas falló: %s", e.Message)
}
