package odoo

import (
	"bytes"
	"encoding/json"
)

// Los backends devuelven el identificador bajo formas distintas: un escalar
// directo, o un objeto con alguna de varias claves posibles. En lugar de
// cadenas de condicionales repartidas por los call sites, ExtractID evalúa
// una lista ordenada de reglas candidatas hasta que una produce valor.

// ExtractID devuelve el identificador contenido en raw, probando primero el
// escalar directo y luego cada clave candidata en orden. Devuelve "" si
// ninguna regla produce un valor.
func ExtractID(raw json.RawMessage, keys ...string) string {
	if len(raw) == 0 {
		return ""
	}
	if id := scalarID(raw); id != "" {
		return id
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if id := scalarID(v); id != "" {
				return id
			}
		}
	}
	return ""
}

// scalarID interpreta raw como id escalar: string no vacío o número.
func scalarID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) ||
		bytes.Equal(raw, []byte("false")) || bytes.Equal(raw, []byte("true")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}
