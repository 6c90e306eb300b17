package node

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type ClientError struct {
	StatusCode int64
	ErrorCode  string
	Msg        string
	Headers    http.Header
	VMErrorCode *int64
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("node client error (status %d): %s", e.StatusCode, e.Msg)
}

type ServerError struct {
	StatusCode int64
	Text       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("node server error (status %d): %s", e.StatusCode, e.Text)
}

type errorResponse struct {
	Message     string `json:"message"`
	ErrorCode   string `json:"error_code"`
	VMErrorCode *int64 `json:"vm_error_code"`
}

func handleException(resp *resty.Response) error {
	statusCode := int64(resp.StatusCode())

	if statusCode < 400 {
		return nil
	}

	if statusCode < 500 {
		var errResp errorResponse
		err := json.Unmarshal(resp.Body(), &errResp)

		if err != nil || errResp.Message == "" {
			return &ClientError{
				StatusCode: statusCode,
				Msg:        string(resp.Body()),
				Headers:    resp.Header(),
			}
		}

		return &ClientError{
			StatusCode:  statusCode,
			ErrorCode:   errResp.ErrorCode,
			Msg:         errResp.Message,
			Headers:     resp.Header(),
			VMErrorCode: errResp.VMErrorCode,
		}
	}

	return &ServerError{
		StatusCode: statusCode,
		Text:       string(resp.Body()),
	}
}
