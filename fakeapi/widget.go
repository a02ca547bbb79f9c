package fakeapi

import (
	"bytes"
	"encoding/json"
)

// Widget is a free-form payload plus the server managed sys block.
type Widget struct {
	Sys    Sys
	Fields map[string]any
}

type Sys struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	Space   Link   `json:"space"`
}

type Link struct {
	Sys LinkSys `json:"sys"`
}

type LinkSys struct {
	ID string `json:"id"`
}

func newWidget(space, id string, fields map[string]any) Widget {
	delete(fields, "sys")
	return Widget{
		Sys: Sys{
			ID:      id,
			Version: 1,
			Space:   Link{Sys: LinkSys{ID: space}},
		},
		Fields: fields,
	}
}

// SpaceID is the denormalized space the widget was created under.
func (w Widget) SpaceID() string {
	return w.Sys.Space.Sys.ID
}

func (w Widget) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(w.Fields)+1)
	for k, v := range w.Fields {
		obj[k] = v
	}
	obj["sys"] = w.Sys
	return json.Marshal(obj)
}

func (w *Widget) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}

	var sys Sys
	if raw, ok := obj["sys"]; ok {
		if err := json.Unmarshal(raw, &sys); err != nil {
			return err
		}
		delete(obj, "sys")
	}

	fields := make(map[string]any, len(obj))
	for k, raw := range obj {
		v, err := decodeValue(raw)
		if err != nil {
			return err
		}
		fields[k] = v
	}

	w.Sys = sys
	w.Fields = fields
	return nil
}

// decodeValue keeps numbers as json.Number so payloads round trip verbatim.
func decodeValue(raw []byte) (any, error) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var v any
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
