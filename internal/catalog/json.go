package catalog

import (
	"fmt"

	"concierge/pkg/model"

	"github.com/goccy/go-json"
)

// UnmarshalItem decodes one JSON listing into its variant using the kind
// field.
func UnmarshalItem(data []byte) (Item, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var item Item
	switch head.Kind {
	case model.KindHotel:
		item = &Hotel{}
	case model.KindAircraft:
		item = &Aircraft{}
	case model.KindYacht:
		item = &Yacht{}
	case model.KindDining:
		item = &Dining{}
	case model.KindWellness:
		item = &Wellness{}
	default:
		return nil, fmt.Errorf("unknown catalog kind %q", head.Kind)
	}

	if err := json.Unmarshal(data, item); err != nil {
		return nil, err
	}
	return item, nil
}
