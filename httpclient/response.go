package httpclient

import (
	"encoding/json"
	"net/http"
)

// Response is the outcome of a request that passed ValidateStatus.
type Response struct {
	Status     int
	StatusText string
	Headers    http.Header
	Data       []byte
	// Config is the merged configuration the request was sent with.
	Config    *Config
	RequestID string
}

// JSON decodes Data into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Data, v)
}
