package types

import (
	"encoding/json"
	"strings"
)

// Destination is a browser push subscription exactly as the client serialized it.
// The engine never looks it up server side; it travels inside every job.
type Destination struct {
	Endpoint       string          `json:"endpoint"`
	ExpirationTime *int64          `json:"expirationTime"`
	Keys           DestinationKeys `json:"keys"`
	// Extra holds any other top-level members of the subscription. They are written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

type DestinationKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// destinationFields has Destination's layout without its JSON methods.
type destinationFields Destination

var knownDestinationFields = map[string]struct{}{
	"endpoint":       {},
	"expirationTime": {},
	"keys":           {},
}

func (d Destination) IsValid() bool {
	return strings.TrimSpace(d.Endpoint) != ""
}

func (d *Destination) UnmarshalJSON(b []byte) error {
	var fields destinationFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(b, &members); err != nil {
		return err
	}
	for name, value := range members {
		if _, known := knownDestinationFields[name]; known {
			continue
		}
		if fields.Extra == nil {
			fields.Extra = make(map[string]json.RawMessage)
		}
		fields.Extra[name] = value
	}

	*d = Destination(fields)
	return nil
}

// MarshalJSON emits the known members followed by Extra. Keys come out sorted, so equal
// destinations always encode to equal bytes.
func (d Destination) MarshalJSON() ([]byte, error) {
	if len(d.Extra) == 0 {
		return json.Marshal(destinationFields(d))
	}

	known, err := json.Marshal(destinationFields(d))
	if err != nil {
		return nil, err
	}
	members := make(map[string]json.RawMessage, len(d.Extra)+len(knownDestinationFields))
	if err := json.Unmarshal(known, &members); err != nil {
		return nil, err
	}
	for name, value := range d.Extra {
		if _, clash := knownDestinationFields[name]; clash {
			continue
		}
		members[name] = value
	}
	return json.Marshal(members)
}
