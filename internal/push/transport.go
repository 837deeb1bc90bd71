package push

import "context"

// Payload is the JSON body delivered to a push endpoint.
type Payload struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Icon  string                 `json:"icon,omitempty"`
	Badge string                 `json:"badge,omitempty"`
	Tag   string                 `json:"tag,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// Endpoint is one device registration as seen by the transport: the opaque
// endpoint URL plus the two key-material strings the push protocol needs.
type Endpoint struct {
	URL    string
	P256dh string
	Auth   string
}

// Transport delivers one payload to one endpoint. Implementations must
// treat every failure as prune-worthy: the push service is the authority
// on whether an endpoint is dead.
type Transport interface {
	Send(ctx context.Context, ep Endpoint, payload Payload) error
}
