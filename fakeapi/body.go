package fakeapi

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/valyala/fastjson"
)

// MediaType is the only content type whose bodies are parsed.
const MediaType = "application/vnd.contentful.management.v1+json"

// maxBodySize matches the 100kb default of the body parser real clients were
// written against.
const maxBodySize = 100 << 10

var errNotObject = errors.New("request body is not a json object")

type requestBody struct {
	raw    *fastjson.Value
	fields map[string]any
}

// readBody parses the request body. Requests without the vendor media type get
// an empty body, the same as a client that forgot to set it, and so do vendor
// requests that carry no bytes.
func readBody(w http.ResponseWriter, r *http.Request) (*requestBody, error) {
	if !hasMediaType(r) {
		return &requestBody{fields: map[string]any{}}, nil
	}

	defer r.Body.Close()
	bs, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(bs)) == 0 {
		return &requestBody{fields: map[string]any{}}, nil
	}

	v, err := fastjson.ParseBytes(bs)
	if err != nil {
		return nil, err
	}
	if v.Type() != fastjson.TypeObject {
		return nil, errNotObject
	}

	decoded, err := decodeValue(bs)
	if err != nil {
		return nil, err
	}
	fields, ok := decoded.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	// sys is server managed, whatever the client sent is dropped
	delete(fields, "sys")

	return &requestBody{raw: v, fields: fields}, nil
}

func hasMediaType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == MediaType
}

// firstFieldType returns widget.fieldTypes[0].type when it is a string.
func (b *requestBody) firstFieldType() string {
	if b.raw == nil {
		return ""
	}
	return string(b.raw.GetStringBytes("widget", "fieldTypes", "0", "type"))
}
