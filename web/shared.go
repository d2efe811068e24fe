package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"log"
	"net/http"
)

type DataMap map[string]interface{}

func (d DataMap) Add(key string, value interface{}) DataMap {
	d[key] = value
	return d
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("error encoding JSON:", err)
	}
}

// writeError maps engine errors onto HTTP statuses and a {ok:false, error} body.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	data := DataMap{"ok": false, "error": err.Error()}

	var validationErr *custom_errors.ValidationError
	if errors.As(err, &validationErr) {
		data.Add("errors", validationErr.Messages())
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, status, data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, custom_errors.ErrInvalidPayload),
		errors.Is(err, custom_errors.ErrNoDestination),
		errors.Is(err, custom_errors.ErrCorruptJob):
		return http.StatusBadRequest
	case errors.Is(err, custom_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, custom_errors.ErrBackendUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, custom_errors.ErrTransportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", custom_errors.ErrInvalidPayload, err)
	}
	return nil
}

func printBanner(addr string) {
	width := 46
	fmt.Println("##############################################")
	fmt.Printf("# %-*s #\n", width-4, "")
	fmt.Printf("# %-*s #\n", width-4, "Remindfire Started")
	fmt.Printf("# %-*s #\n", width-4, fmt.Sprintf("Remindfire running on %s", addr))
	fmt.Printf("# %-*s #\n", width-4, "")
	fmt.Println("##############################################")
}
