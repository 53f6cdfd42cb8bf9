package response

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"pokemon-map/internal/shared/errors"
	"pokemon-map/internal/shared/i18n"
)

// ErrorResponse represents the JSON error response sent to clients
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var errorPage = template.Must(template.New("error").Parse(
	`<!DOCTYPE html><html lang="{{.Lang}}"><head><meta charset="utf-8"><title>{{.Message}}</title></head>` +
		`<body><h1>{{.Message}}</h1></body></html>`,
))

// Error logs an error and sends a JSON error response to the client
// This should be the only place where errors are logged in the application
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	statusCode := mapErrorTypeToStatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	sendErrorResponse(w, errorType, clientMessage(err, errorType), statusCode)
}

// Page logs an error and renders a minimal HTML error page whose message
// is translated into the request language.
func Page(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	PageWithMessage(w, r, logger, err, defaultMessageKey(errorType))
}

// PageWithMessage is Page with an explicit i18n message key.
func PageWithMessage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, messageKey string) {
	errorType := errors.GetType(err)
	statusCode := mapErrorTypeToStatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	tag := i18n.FromContext(r.Context())
	data := struct {
		Lang    string
		Message string
	}{
		Lang:    tag.String(),
		Message: i18n.Printer(tag).Sprintf(messageKey),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", "GET, HEAD")
	}
	w.WriteHeader(statusCode)

	// The status code has already been sent
	if err := errorPage.Execute(w, data); err != nil {
		logger.Error("Failed to render error page", "error", err)
	}
}

// mapErrorTypeToStatusCode maps error types to HTTP status codes
func mapErrorTypeToStatusCode(errorType errors.ErrorType) int {
	switch errorType {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrorTypeExternal:
		return http.StatusServiceUnavailable
	case errors.ErrorTypeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessageKey(errorType errors.ErrorType) string {
	switch errorType {
	case errors.ErrorTypeNotFound:
		return i18n.MsgNotFound
	case errors.ErrorTypeValidation:
		return i18n.MsgBadRequest
	case errors.ErrorTypeMethodNotAllowed:
		return i18n.MsgMethodNotAllowed
	default:
		return i18n.MsgInternalError
	}
}

// clientMessage hides internal details from clients.
func clientMessage(err error, errorType errors.ErrorType) string {
	switch errorType {
	case errors.ErrorTypeInternal, errors.ErrorTypeExternal:
		return http.StatusText(mapErrorTypeToStatusCode(errorType))
	default:
		return err.Error()
	}
}

// logError logs the error with appropriate level and context
func logError(logger *slog.Logger, r *http.Request, err error, errorType errors.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch errorType {
	case errors.ErrorTypeNotFound:
		// Unknown species ids are routine
		logCtx.Debug("Resource not found", "error", err)
	case errors.ErrorTypeValidation, errors.ErrorTypeMethodNotAllowed:
		logCtx.Debug("Client error", "error", err)
	case errors.ErrorTypeExternal:
		logCtx.Error("External service error", "error", err)
	case errors.ErrorTypeInternal:
		fallthrough
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

// sendErrorResponse sends a JSON error response to the client
func sendErrorResponse(w http.ResponseWriter, errorType errors.ErrorType, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   string(errorType),
		Message: message,
		Code:    statusCode,
	}

	// The status code has already been sent
	_ = json.NewEncoder(w).Encode(response)
}

// Success sends a JSON success response to the client
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
