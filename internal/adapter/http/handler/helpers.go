package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	t "github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/internal/service/auth"
)

// DefaultMaxBodyBytes limits request bodies of handlers without their own limit.
const DefaultMaxBodyBytes = 1_048_576

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return readJSONLimit(w, r, dst, DefaultMaxBodyBytes)
}

func readJSONLimit(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return decodeJSON(r.Body, dst)
}

// readBody buffers the whole body for handlers that decode it more than once.
func readBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		}
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("body must not be empty")
	}
	return body, nil
}

// decodeJSON strictly decodes a single JSON value from body into dst.
func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if field := jsonFieldPath(dst, unmarshalTypeError.Field); field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &invalidUnmarshalError):
			return fmt.Errorf("invalid unmarshal error: %w", err)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// jsonFieldPath translates a dotted path of Go field names reported by the
// decoder into json keys of dst. It returns "" when the path cannot be resolved.
func jsonFieldPath(dst any, field string) string {
	if field == "" || dst == nil {
		return ""
	}

	typ := reflect.TypeOf(dst)
	parts := strings.Split(field, ".")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		for typ.Kind() == reflect.Pointer || typ.Kind() == reflect.Slice || typ.Kind() == reflect.Array || typ.Kind() == reflect.Map {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			return ""
		}

		sf, ok := structFieldByKey(typ, part)
		if !ok {
			return ""
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			name = sf.Name
		}
		keys = append(keys, name)
		typ = sf.Type
	}
	return strings.Join(keys, ".")
}

// structFieldByKey finds an exported field by Go name or by json key.
func structFieldByKey(typ reflect.Type, key string) (reflect.StructField, bool) {
	if sf, ok := typ.FieldByName(key); ok && sf.IsExported() {
		return sf, true
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name == key {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

// readIntQuery returns def when key is absent and an error when it is not an integer.
func readIntQuery(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("must be an integer value")
	}
	return i, nil
}

func GetCode(err error) int {
	switch {
	case IsOneOf(err, t.ErrForbidden):
		return http.StatusForbidden
	case IsOneOf(err, t.ErrUserNotFound, t.ErrSessionNotFound, t.ErrSummaryNotFound, t.ErrNotFound):
		return http.StatusNotFound
	case IsOneOf(err, auth.ErrInvalidToken, auth.ErrExpToken, auth.ErrWrongTokenType, t.ErrIdentityProviderUnauthorized):
		return http.StatusUnauthorized
	case IsOneOf(err, t.ErrEmailAlreadyExists, t.ErrKakaoIDConflict, t.ErrSessionAlreadyExists):
		return http.StatusConflict
	case IsOneOf(err, t.ErrIdentityProviderUnavailable, auth.ErrInvalidProviderUser):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage hides internal failures from clients.
func ErrorMessage(err error) string {
	if GetCode(err) == http.StatusInternalServerError {
		return "the server encountered a problem and could not process your request"
	}
	return rootMessage(err)
}

// rootMessage returns the message of the domain error in err's chain.
func rootMessage(err error) string {
	for _, target := range []error{
		t.ErrForbidden, t.ErrUserNotFound, t.ErrSessionNotFound, t.ErrSummaryNotFound, t.ErrNotFound,
		auth.ErrInvalidToken, auth.ErrExpToken, auth.ErrWrongTokenType, t.ErrIdentityProviderUnauthorized,
		t.ErrEmailAlreadyExists, t.ErrKakaoIDConflict, t.ErrSessionAlreadyExists,
		t.ErrIdentityProviderUnavailable, auth.ErrInvalidProviderUser,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
