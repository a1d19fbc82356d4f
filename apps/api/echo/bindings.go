package echoapi

import "github.com/yavirac/inventario/core/usuario"

type (
	LoginResponse struct {
		Token   string          `json:"token"`
		Usuario usuario.Usuario `json:"usuario"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	SessionStatusResponse struct {
		RemainingSeconds int  `json:"remainingSeconds"`
		ShowWarning      bool `json:"showWarning"`
	}
)
