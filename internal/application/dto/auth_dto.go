package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token y datos de sesión del usuario de dispositivo.
type LoginResponse struct {
	Token           string `json:"token"`
	Name            string `json:"name"`
	SalesPersonID   string `json:"sales_person_id,omitempty"`
	SalesPersonName string `json:"sales_person_name,omitempty"`
	WarehouseID     string `json:"warehouse_id,omitempty"`
}
