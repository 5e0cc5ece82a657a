// Package pricingv1 is the wire contract of the pricing gRPC API.
//
// Messages are plain Go structs carried by a JSON codec registered under the "json"
// content-subtype; clients built with NewPricingServiceClient select it on every call.
package pricingv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the pricing API.
const CodecName = "json"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (codec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(codec{})
}
