// Package gateway provides the HTTP client for the myDropbox storage gateway.
//
// Every operation is one JSON request against the configured base address
// (endpoint plus API prefix). Client implements mydropbox.Gateway.
//
// # Basic Usage
//
//	client, err := gateway.New(&gateway.Config{
//		Endpoint: "https://abc123.execute-api.us-east-1.amazonaws.com",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	files, err := client.ListFiles(ctx, "alice")
//
// # Raw Calls
//
// Call exposes the underlying request primitive:
//
//	result, err := client.Call(ctx, http.MethodGet, gateway.RouteView, map[string]string{"owner": "alice"})
//	if err != nil {
//		// transport failure, non-2xx status or non-JSON body
//	}
//
// # Errors
//
// Non-2xx responses are returned as *APIError. Use errors.Is with ErrNotFound,
// ErrUnauthorized or ErrForbidden to check for common statuses.
package gateway
