package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	apperrors "github.com/luminara/journey-api/internal/errors"
)

// maxBodyBytes caps request bodies; profile payloads are the largest.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, false)
}

// DecodeOptionalJSON is DecodeJSON for endpoints whose body may be omitted.
// An empty body, whatever its framing, leaves dst untouched and succeeds.
func DecodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAuthError writes an authentication failure. The body always carries the
// generic public message; the code tells clients whether retrying makes sense.
func WriteAuthError(w http.ResponseWriter, err error) {
	code := domainauth.CodeOf(err)
	WriteError(w, ErrorParams{
		Code:    authStatus(code),
		ErrCode: string(code),
		Err:     errors.New(domainauth.PublicMessage),
	})
}

func authStatus(code domainauth.ErrorCode) int {
	switch code {
	case domainauth.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case domainauth.CodeInvalidInput:
		return http.StatusBadRequest
	case domainauth.CodeInProgress, domainauth.CodeConflict:
		return http.StatusConflict
	case domainauth.CodeCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusServiceUnavailable
	}
}

// WriteAppError maps an AppError code to a status. Errors without a code become a
// 500 whose message hides the cause.
func WriteAppError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: fallback,
			Err:     errors.New(http.StatusText(http.StatusInternalServerError)),
		})
		return
	}
	WriteError(w, ErrorParams{
		Code:    appStatus(appErr.Code),
		ErrCode: string(appErr.Code),
		Err:     errors.New(appErr.Message),
	})
}

func appStatus(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
