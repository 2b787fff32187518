// Package catalog serves the static listings (hotels and the auxiliary luxury
// services) from an embedded YAML file.
package catalog

import (
	"fmt"

	"concierge/pkg/model"

	"gopkg.in/yaml.v3"
)

// Item is one catalog listing. The set of variants is closed.
type Item interface {
	Base() *Listing
	isItem()
}

type Listing struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        string   `json:"kind" yaml:"kind"`
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Location    string   `json:"location" yaml:"location"`
	Category    string   `json:"category" yaml:"category"`
	Features    []string `json:"features" yaml:"features"`
	Image       string   `json:"image" yaml:"image"`
	Description string   `json:"description" yaml:"description"`
}

func (l *Listing) Base() *Listing { return l }

type Hotel struct {
	Listing   `yaml:",inline"`
	Stars     int      `json:"stars" yaml:"stars"`
	RoomTypes []string `json:"roomTypes" yaml:"room_types"`
	Rating    float64  `json:"rating" yaml:"rating"`
}

type Aircraft struct {
	Listing    `yaml:",inline"`
	Model      string `json:"model" yaml:"model"`
	Passengers int    `json:"passengers" yaml:"passengers"`
	RangeKm    int    `json:"rangeKm" yaml:"range_km"`
}

type Yacht struct {
	Listing `yaml:",inline"`
	LengthM float64 `json:"lengthM" yaml:"length_m"`
	Cabins  int     `json:"cabins" yaml:"cabins"`
	Crew    int     `json:"crew" yaml:"crew"`
}

type Dining struct {
	Listing       `yaml:",inline"`
	Cuisine       string `json:"cuisine" yaml:"cuisine"`
	MichelinStars int    `json:"michelinStars" yaml:"michelin_stars"`
}

type Wellness struct {
	Listing     `yaml:",inline"`
	Treatments  []string `json:"treatments" yaml:"treatments"`
	DurationMin int      `json:"durationMinutes" yaml:"duration_minutes"`
}

func (*Hotel) isItem()    {}
func (*Aircraft) isItem() {}
func (*Yacht) isItem()    {}
func (*Dining) isItem()   {}
func (*Wellness) isItem() {}

// decodeItem reads the kind discriminant first, then decodes the node into
// the matching variant.
func decodeItem(node *yaml.Node) (Item, error) {
	var head struct {
		ID   string `yaml:"id"`
		Kind string `yaml:"kind"`
	}
	if err := node.Decode(&head); err != nil {
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
		return nil, fmt.Errorf("item %q: unknown kind %q", head.ID, head.Kind)
	}

	if err := node.Decode(item); err != nil {
		return nil, fmt.Errorf("item %q: %w", head.ID, err)
	}
	if item.Base().ID == "" || item.Base().Name == "" {
		return nil, fmt.Errorf("item at line %d: id and name are required", node.Line)
	}
	return item, nil
}
