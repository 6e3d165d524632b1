package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownEvent = errors.New("unknown event")

// Marshal encodes the event payload. The name is carried separately.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes a payload previously produced by Marshal for the named event.
func Unmarshal(name string, payload []byte) (Event, error) {
	switch name {
	case NameLinkCreated:
		var e LinkCreated
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return e, nil
	case NameRedirectOccurred:
		var e RedirectOccurred
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}
