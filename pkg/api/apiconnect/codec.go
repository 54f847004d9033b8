// Package apiconnect wires the invoicer.v1 services onto Connect: service
// and procedure names, handler constructors and typed clients. Messages
// are the plain structs of package api, carried as JSON.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec marshals api messages as JSON. It registers under the name "json",
// so it serves the application/json and application/connect+json content
// types.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (Codec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
