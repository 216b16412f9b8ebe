package httpapi

import "encoding/json"

// The gateway answers either with the bare payload or with a
// {success, data} envelope around it. Model the two shapes explicitly:
// a response decodes as enveloped exactly when a data field is present.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// unwrap returns the logical payload of a response body: the envelope's
// data when the body is enveloped, the body itself otherwise.
func unwrap(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return body
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return body
	}
	return env.Data
}
