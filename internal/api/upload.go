package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

// Upload posts a multipart body with one file part plus additional form
// fields. The Content-Type header carries the writer's boundary instead of
// application/json; empty field values are omitted.
func (c *Client) Upload(ctx context.Context, endpoint, fileField, filename string, file io.Reader, fields map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if file != nil {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			return errors.Wrap(err, "create file part")
		}
		if _, err := io.Copy(part, file); err != nil {
			return errors.Wrap(err, "copy file part")
		}
	}
	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(key, value); err != nil {
			return errors.Wrap(err, "write form field")
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "finish multipart body")
	}

	_, err := c.do(ctx, http.MethodPost, endpoint, &buf, w.FormDataContentType(), out, true)
	return err
}
