package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/sagarc03/mydropbox"
)

// Gateway routes, relative to the configured base address.
const (
	RouteRegister = "/register"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteView     = "/view"
	RoutePut      = "/put"
	RouteGet      = "/get"
	RouteShare    = "/share"
)

// Result is the outcome of a successful Call.
type Result struct {
	StatusCode int
	Payload    json.RawMessage
	RequestID  string
}

// Decode unmarshals the payload into v.
func (r *Result) Decode(v any) error {
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// viewRequest mirrors the JSON body of a listing call.
type viewRequest struct {
	Owner string `json:"owner"`
}

// viewResponse mirrors the JSON response of a listing call.
type viewResponse struct {
	Files []mydropbox.FileRecord `json:"files"`
}

type getRequest struct {
	Owner    string `json:"owner"`
	FileName string `json:"file_name"`
}

type getResponse struct {
	FileURL string `json:"file_url"`
}
