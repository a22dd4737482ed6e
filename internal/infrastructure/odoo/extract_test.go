package odoo_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AmalManoj-243/salesorderandpos/internal/infrastructure/odoo"
)

func TestExtractID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		keys []string
		want string
	}{
		{"string escalar", `"SO-100"`, nil, "SO-100"},
		{"numero escalar", `42`, nil, "42"},
		{"numero decimal se conserva tal cual", `42.0`, nil, "42.0"},
		{"objeto con primera clave", `{"result":"SO-1","id":"X"}`, []string{"result", "id"}, "SO-1"},
		{"objeto cae a la siguiente clave", `{"id":7}`, []string{"result", "id", "order_id"}, "7"},
		{"clave con null se salta", `{"result":null,"id":"SO-2"}`, []string{"result", "id"}, "SO-2"},
		{"booleano no es id", `false`, nil, ""},
		{"objeto sin claves conocidas", `{"foo":"bar"}`, []string{"id"}, ""},
		{"string vacio no es id", `""`, nil, ""},
		{"vacio", ``, []string{"id"}, ""},
		{"null", `null`, []string{"id"}, ""},
		{"basura", `{{{`, []string{"id"}, ""},
		{"objeto anidado no se desciende", `{"result":{"id":1}}`, []string{"result"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := odoo.ExtractID(json.RawMessage(tc.raw), tc.keys...)
			assert.Equal(t, tc.want, got)
		})
	}
}
