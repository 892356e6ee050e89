// Package main implements a fake testing-platform API for local end-to-end
// runs of edscope. It issues tokens to any client_credentials request and
// serves canned query responses that echo back the received parameters, so a
// session can verify exactly which parameters were injected.
//
// Usage:
//
//	go run ./e2e/testserver &
//	EDSCOPE_BASE_URL=http://localhost:8199 \
//	EDSCOPE_TOKEN_URL=http://localhost:8199/oauth2/token \
//	EDSCOPE_CLIENT_ID=demo EDSCOPE_CLIENT_SECRET=demo \
//	EDSCOPE_PROGRAM_ID=238 edscope query eventQuery
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

const issuedToken = "e2e-token"

func main() {
	addr := ":8199"
	if v := os.Getenv("TESTSERVER_ADDR"); v != "" {
		addr = v
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", tokenHandler)
	mux.HandleFunc("/", queryHandler)

	fmt.Fprintf(os.Stderr, "fake platform listening on %s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func tokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil || r.FormValue("grant_type") != "client_credentials" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "unsupported_grant_type",
			"error_description": "only client_credentials is supported",
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": issuedToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

// queryHandler echoes the endpoint and query parameters back, plus a couple
// of special cases for exercising failure paths:
//
//	/unprocessable/query  -> 422 business-validation response
//	/broken/query         -> 500
func queryHandler(w http.ResponseWriter, r *http.Request) {
	if got := r.Header.Get("Authorization"); got != "Bearer "+issuedToken {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid or missing bearer token"})
		return
	}

	switch {
	case strings.HasPrefix(r.URL.Path, "/unprocessable/"):
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "no matching records for the given parameters"})
		return
	case strings.HasPrefix(r.URL.Path, "/broken/"):
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "internal failure"})
		return
	}

	params := map[string]string{}
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"endpoint":       r.URL.Path,
		"receivedParams": params,
		"records":        []map[string]string{{"id": "DEMO-1", "name": "sample record"}},
	})
}
