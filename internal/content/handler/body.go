package handler

import (
	"encoding/json"
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/folio/folio/backend/api/internal/models"
	"github.com/gin-gonic/gin"
)

// readBody returns the request's fields as top-level JSON values plus the
// file sent under fileField, if any. Multipart and JSON bodies are accepted;
// multipart values are converted using the json types of T's fields.
func readBody[T any](c *gin.Context, fileField string) (map[string]json.RawMessage, *multipart.FileHeader, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, models.NewValidationError("request", "body", err.Error())
		}
		patch, err := formPatch(form.Value, reflect.TypeOf((*T)(nil)).Elem())
		if err != nil {
			return nil, nil, err
		}
		var file *multipart.FileHeader
		if fileField != "" && len(form.File[fileField]) > 0 {
			file = form.File[fileField][0]
		}
		return patch, file, nil
	}
	patch := map[string]json.RawMessage{}
	if c.Request.ContentLength == 0 {
		return patch, nil, nil
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		return nil, nil, models.NewValidationError("request", "body", "body must be a JSON object")
	}
	return patch, nil, nil
}

// formPatch converts form values to JSON using the field types of t. String
// fields take the value verbatim; string slices accept a JSON array, repeated
// values or a comma-separated list; every other type must be valid JSON.
// Keys that are not fields of t are ignored.
func formPatch(values map[string][]string, t reflect.Type) (map[string]json.RawMessage, error) {
	patch := map[string]json.RawMessage{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		vals, ok := values[name]
		if name == "" || !ok || len(vals) == 0 {
			continue
		}
		raw, err := formValue(f.Type, vals)
		if err != nil {
			return nil, models.NewValidationError(t.Name(), name, err.Error())
		}
		patch[name] = raw
	}
	return patch, nil
}

type formError string

func (e formError) Error() string { return string(e) }

func formValue(t reflect.Type, vals []string) (json.RawMessage, error) {
	first := strings.TrimSpace(vals[0])
	switch {
	case t.Kind() == reflect.String:
		return json.Marshal(vals[0])
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String:
		if len(vals) == 1 && strings.HasPrefix(first, "[") {
			if !json.Valid([]byte(first)) {
				return nil, formError("must be a JSON array")
			}
			return json.RawMessage(first), nil
		}
		if len(vals) == 1 {
			vals = splitComma(vals[0])
		}
		return json.Marshal(vals)
	}
	if !json.Valid([]byte(first)) {
		return nil, formError("must be valid JSON")
	}
	return json.RawMessage(first), nil
}

func splitComma(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
