package inventory

import (
	"fmt"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// DefaultReferencePrefix prefijo de las referencias de documentos de inventario.
const DefaultReferencePrefix = "INVENTORY"

// Tipos usados en la referencia.
const (
	ReferenceTypeStockIn    = "STOCKIN"
	ReferenceTypeStockOut   = "STOCKOUT"
	ReferenceTypeAdjustment = "ADJUSTMENT"
)

// FormatReference arma la referencia "<PREFIX>/<TYPE>/00<N+1>" donde count es la
// cantidad de documentos existentes del tipo.
//
// No es una secuencia: dos creaciones concurrentes pueden leer el mismo conteo y
// recibir la misma referencia. No hay índice único sobre la referencia.
func FormatReference(prefix, docType string, count int) string {
	return fmt.Sprintf("%s/%s/00%d", prefix, docType, count+1)
}

// ReferenceType tipo de referencia para un tipo de documento.
func ReferenceType(kind string) string {
	switch kind {
	case entity.LedgerKindStockIn:
		return ReferenceTypeStockIn
	case entity.LedgerKindStockOut:
		return ReferenceTypeStockOut
	case entity.LedgerKindAdjustment:
		return ReferenceTypeAdjustment
	}
	return ""
}
