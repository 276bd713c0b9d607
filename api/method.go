package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// Body is the payload of a Post, Patch or Put request. It is one of JSON, Raw
// or Multipart.
type Body interface {
	encode() (payload []byte, contentType string, err error)
}

type jsonBody struct{ value any }

type rawBody struct{ data []byte }

type multipartBody struct{ parts []Part }

// Part is a single named section of a multipart/form-data body.
type Part struct {
	// Name is the form field name.
	Name string
	// FileName is sent as the Content-Disposition filename when set.
	FileName    string
	ContentType string
	Contents    []byte
}

// JSON encodes v as application/json.
func JSON(v any) Body { return jsonBody{value: v} }

// Raw sends data verbatim without a Content-Type.
func Raw(data []byte) Body { return rawBody{data: data} }

// Multipart builds a multipart/form-data body from parts.
func Multipart(parts ...Part) Body { return multipartBody{parts: parts} }

func (b jsonBody) encode() ([]byte, string, error) {
	payload, err := json.Marshal(b.value)
	if err != nil {
		return nil, "", NewClientError(SerializationError, "failed to marshal request body", err)
	}
	return payload, "application/json", nil
}

func (b rawBody) encode() ([]byte, string, error) {
	return b.data, "", nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (b multipartBody) encode() ([]byte, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, part := range b.parts {
		disposition := fmt.Sprintf(`form-data; name="%s"`, quoteEscaper.Replace(part.Name))
		if part.FileName != "" {
			disposition += fmt.Sprintf(`; filename="%s"`, quoteEscaper.Replace(part.FileName))
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", disposition)
		contentType := part.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", NewClientError(SerializationError, fmt.Sprintf("failed to create part %s", part.Name), err)
		}
		if _, err := w.Write(part.Contents); err != nil {
			return nil, "", NewClientError(SerializationError, fmt.Sprintf("failed to write part %s", part.Name), err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", NewClientError(SerializationError, "failed to close multipart writer", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// HTTPMethod is the verb of a logical operation together with its optional body.
// Get and Delete never carry a body.
type HTTPMethod struct {
	verb string
	body Body
}

func Get() HTTPMethod    { return HTTPMethod{verb: http.MethodGet} }
func Delete() HTTPMethod { return HTTPMethod{verb: http.MethodDelete} }

// Post, Patch and Put accept a nil body; the request is then sent with an
// explicit zero Content-Length.
func Post(body Body) HTTPMethod  { return HTTPMethod{verb: http.MethodPost, body: body} }
func Patch(body Body) HTTPMethod { return HTTPMethod{verb: http.MethodPatch, body: body} }
func Put(body Body) HTTPMethod   { return HTTPMethod{verb: http.MethodPut, body: body} }

// Verb returns the HTTP method name.
func (m HTTPMethod) Verb() string {
	if m.verb == "" {
		return http.MethodGet
	}
	return m.verb
}

// HasBody reports whether a body variant is attached.
func (m HTTPMethod) HasBody() bool { return m.body != nil }

// newRequest maps the logical method onto an outgoing request.
func (m HTTPMethod) newRequest(ctx context.Context, uri Endpoint) (*http.Request, error) {
	verb := m.Verb()
	switch verb {
	case http.MethodGet, http.MethodDelete:
		req, err := http.NewRequestWithContext(ctx, verb, uri.String(), nil)
		if err != nil {
			return nil, NewClientError(RequestError, "failed to create request", err)
		}
		return req, nil
	}

	if m.body == nil {
		req, err := http.NewRequestWithContext(ctx, verb, uri.String(), http.NoBody)
		if err != nil {
			return nil, NewClientError(RequestError, "failed to create request", err)
		}
		// Some backends reject an unannounced empty body.
		req.ContentLength = 0
		return req, nil
	}

	payload, contentType, err := m.body.encode()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, verb, uri.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, NewClientError(RequestError, "failed to create request", err)
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}
