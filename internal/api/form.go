package api

import (
	"bytes"
	"fmt"
	"maps"
	"mime/multipart"
	"slices"
)

// FormFile is one file part of a multipart form.
type FormFile struct {
	Field    string
	Filename string
	Content  []byte
}

// FormPayload is a multipart/form-data body. Fields are written in key order.
type FormPayload struct {
	Fields map[string]string
	Files  []FormFile
}

// Encode renders the payload and returns the body with its content type.
func (f FormPayload) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, key := range slices.Sorted(maps.Keys(f.Fields)) {
		if err := w.WriteField(key, f.Fields[key]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", key, err)
		}
	}
	for _, file := range f.Files {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %q: %w", file.Field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %q: %w", file.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
