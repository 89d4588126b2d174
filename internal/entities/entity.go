// Package entities holds the compiled-in directory of legal entities that issue
// invoices for storefront sales, and the country groupings used to tell the
// regional USD exchange rates apart.
//
// Membership of countries in entities changes on the Cutover date. Both sides
// of the change are kept as immutable tables, see Membership.
package entities

import (
	"fmt"
	"strings"
)

// LegalEntity is one of the fixed set of invoice issuers
type LegalEntity int

const (
	Europe LegalEntity = iota
	US
	Australia
	Canada
	Japan
	LatAm
	APAC
)

// All lists every entity in lookup order
var All = []LegalEntity{Europe, US, Australia, Canada, Japan, LatAm, APAC}

var entityNames = map[LegalEntity]string{
	Europe:    "europe",
	US:        "us",
	Australia: "australia",
	Canada:    "canada",
	Japan:     "japan",
	LatAm:     "latam",
	APAC:      "apac",
}

var entityTitles = map[LegalEntity]string{
	Europe:    "Apple Distribution International",
	US:        "Apple Inc.",
	Australia: "Apple Pty Limited",
	Canada:    "Apple Canada Inc.",
	Japan:     "iTunes K.K.",
	LatAm:     "Apple Services LATAM LLC",
	APAC:      "Apple Services Pte. Ltd.",
}

var entityAddresses = map[LegalEntity]string{
	Europe: `Apple Distribution International Ltd.
Hollyhill Industrial Estate
Hollyhill, Cork
Republic of Ireland
VAT ID: IE9700053D`,
	US: `Apple Inc.
1 Apple Park Way
Cupertino, CA 95014
U.S.A.`,
	Australia: `Apple Pty Limited
Level 3
20 Martin Place
Sydney NSW 2000
Australia`,
	Canada: `Apple Canada Inc.
120 Bremner Boulevard, Suite 1600
Toronto, ON M5J 0A8
Canada`,
	Japan: `iTunes K.K.
〒 106-6140
6-10-1 Roppongi, Minato-ku, Tokyo
Japan`,
	LatAm: `Apple Services LATAM LLC
1 Alhambra Plaza
Suite 700
Coral Gables, FL 33134
U.S.A.`,
	APAC: `Apple Services Pte. Ltd.
7 Ang Mo Kio Street 64
Singapore 569086
Singapore`,
}

// String returns the short lowercase name used in flags and config files
func (e LegalEntity) String() string {
	if name, ok := entityNames[e]; ok {
		return name
	}
	return fmt.Sprintf("LegalEntity(%d)", int(e))
}

// IsValid reports whether e is part of the directory
func (e LegalEntity) IsValid() bool {
	_, ok := entityNames[e]
	return ok
}

// Title returns the display title of the entity
func (e LegalEntity) Title() string {
	return entityTitles[e]
}

// Address returns the multi-line legal address of the entity
func (e LegalEntity) Address() string {
	return entityAddresses[e]
}

// MarshalText implements encoding.TextMarshaler
func (e LegalEntity) MarshalText() ([]byte, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("invalid legal entity: %d", int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *LegalEntity) UnmarshalText(text []byte) error {
	parsed, err := ParseLegalEntity(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseLegalEntity resolves a short name such as "europe" or "APAC"
func ParseLegalEntity(name string) (LegalEntity, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, entity := range All {
		if entityNames[entity] == normalized {
			return entity, nil
		}
	}
	return 0, fmt.Errorf("unknown legal entity: %q", name)
}

// ParseLegalEntities resolves a list of short names, ignoring empty entries
func ParseLegalEntities(names []string) ([]LegalEntity, error) {
	var result []LegalEntity
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		entity, err := ParseLegalEntity(name)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, nil
}
