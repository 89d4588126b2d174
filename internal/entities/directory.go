package entities

import (
	"sort"
	"time"

	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"
)

// Cutover is the date on which APAC took over a group of Asia-Pacific countries from Europe
var Cutover = time.Date(2024, time.October, 26, 0, 0, 0, 0, time.UTC)

// MembershipTable maps each entity to the countries it issues invoices for.
// Tables are built once and never modified.
type MembershipTable struct {
	Version       string
	EffectiveFrom time.Time
	members       map[LegalEntity]map[string]string
}

var (
	preCutoverTable  = buildTable("pre-cutover", time.Time{}, false)
	postCutoverTable = buildTable("post-cutover", Cutover, true)
)

func buildTable(version string, effectiveFrom time.Time, apacSplit bool) *MembershipTable {
	europe := copyCountries(europeCountries)
	apac := map[string]string{}
	if apacSplit {
		for _, code := range apacCodes {
			apac[code] = europe[code]
			delete(europe, code)
		}
	}

	return &MembershipTable{
		Version:       version,
		EffectiveFrom: effectiveFrom,
		members: map[LegalEntity]map[string]string{
			Europe:    europe,
			US:        copyCountries(usCountries),
			Australia: copyCountries(australiaCountries),
			Canada:    copyCountries(canadaCountries),
			Japan:     copyCountries(japanCountries),
			LatAm:     copyCountries(latamCountries),
			APAC:      apac,
		},
	}
}

func copyCountries(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for code, name := range src {
		dst[code] = name
	}
	return dst
}

// Tables returns both membership tables, oldest first
func Tables() []*MembershipTable {
	return []*MembershipTable{preCutoverTable, postCutoverTable}
}

// TableAt returns the membership table in effect on asOf
func TableAt(asOf time.Time) *MembershipTable {
	if asOf.Before(Cutover) {
		return preCutoverTable
	}
	return postCutoverTable
}

// Countries returns a copy of the code to display name map of an entity
func (t *MembershipTable) Countries(entity LegalEntity) map[string]string {
	return copyCountries(t.members[entity])
}

// Codes returns the sorted country codes of an entity
func (t *MembershipTable) Codes(entity LegalEntity) []string {
	codes := make([]string, 0, len(t.members[entity]))
	for code := range t.members[entity] {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the first entity in directory order that claims code
func (t *MembershipTable) Lookup(code string) (LegalEntity, string, bool) {
	for _, entity := range All {
		if name, ok := t.members[entity][code]; ok {
			return entity, name, true
		}
	}
	return 0, "", false
}

// Membership returns the countries an entity claims on asOf
func Membership(entity LegalEntity, asOf time.Time) map[string]string {
	return TableAt(asOf).Countries(entity)
}

// Directory resolves country codes to entities and display names.
// The clock is used for display names only.
type Directory struct {
	now    func() time.Time
	logger logger.Logger
}

// NewDirectory creates a directory; a nil clock means time.Now
func NewDirectory(now func() time.Time) *Directory {
	if now == nil {
		now = time.Now
	}
	return &Directory{now: now}
}

// WithLogger sets the logger used for unresolved country codes
func (d *Directory) WithLogger(log logger.Logger) *Directory {
	d.logger = log
	return d
}

func (d *Directory) log() logger.Logger {
	if d.logger != nil {
		return d.logger
	}
	return logger.WithComponent("entity_directory")
}

// PinnedDirectory creates a directory whose clock always returns asOf
func PinnedDirectory(asOf time.Time) *Directory {
	return NewDirectory(func() time.Time { return asOf })
}

// EntityFor returns the entity claiming code on asOf. A code claimed by no
// entity is logged and reported with ok == false; callers decide whether it is fatal.
func (d *Directory) EntityFor(code string, asOf time.Time) (LegalEntity, bool) {
	table := TableAt(asOf)
	entity, _, ok := table.Lookup(code)
	if !ok {
		d.log().WithFields(logger.Fields{
			"country_code": code,
			"table":        table.Version,
		}).Warn("Could not find legal entity for country code")
		return 0, false
	}
	return entity, true
}

// CountryDisplayName returns the name of the country as of the directory clock
func (d *Directory) CountryDisplayName(code string) (string, error) {
	if _, name, ok := TableAt(d.now()).Lookup(code); ok {
		return name, nil
	}
	return "", errors.UnknownCountryCodeError(code)
}

var defaultDirectory = NewDirectory(nil)

// EntityFor resolves code with the default directory
func EntityFor(code string, asOf time.Time) (LegalEntity, bool) {
	return defaultDirectory.EntityFor(code, asOf)
}

// CountryDisplayName resolves the display name of code as of now
func CountryDisplayName(code string) (string, error) {
	return defaultDirectory.CountryDisplayName(code)
}
