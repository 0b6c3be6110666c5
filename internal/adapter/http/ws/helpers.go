package wshandler

import (
	"github.com/Temutjin2k/running-app/internal/adapter/http/ws/dto"
	ws "github.com/Temutjin2k/running-app/pkg/wsHub"
)

// errorResponse sends an error frame. message is a string or a field map.
func errorResponse(conn *ws.Conn, message any) error {
	return conn.Send(dto.ErrorMessage{Type: dto.MessageError, Error: message})
}

func failedValidationResponse(conn *ws.Conn, fields map[string]string) error {
	return errorResponse(conn, fields)
}
