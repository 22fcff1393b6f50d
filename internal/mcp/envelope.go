// ABOUTME: JSON-RPC envelope validation and request/notification classification
// ABOUTME: Pure predicates; callers turn invalid envelopes into -32600 responses

package mcp

import "encoding/json"

// envelopeKind classifies a parsed body. Every dispatched unit is
// exactly one of request or notification; everything else is invalid.
type envelopeKind int

const (
	envelopeInvalid envelopeKind = iota
	envelopeRequest
	envelopeNotification
)

// classifyEnvelope decides whether a parsed body is a valid request, a
// valid notification, or invalid. A body is a notification iff it has
// no id field at all; an explicit "id": null is invalid because the
// protocol requires the id to be meaningfully present or entirely
// absent.
func classifyEnvelope(req *Request) envelopeKind {
	if req == nil || req.JSONRPC != "2.0" {
		return envelopeInvalid
	}
	if len(req.ID) == 0 {
		return envelopeNotification
	}
	if string(req.ID) == "null" {
		return envelopeInvalid
	}
	return envelopeRequest
}

// echoID returns the id to echo in an error response: the request's
// own id when extractable, else JSON null.
func echoID(req *Request) json.RawMessage {
	if req != nil && len(req.ID) > 0 && string(req.ID) != "null" {
		return req.ID
	}
	return json.RawMessage("null")
}
