package entity

// Customer son los datos de cliente conocidos por la sesión POS (los que la
// pantalla ya tiene). Address y Mobile pueden faltar; el flujo de envío los
// resuelve por fallback contra el backend.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
}
