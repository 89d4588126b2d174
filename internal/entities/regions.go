package entities

import (
	"strings"
	"time"
)

// Region distinguishes the exchange rates the storefront reports for USD sales
// made outside the United States.
type Region string

const (
	RegionRestOfWorld  Region = "RoW"
	RegionLatinAmerica Region = "LatAm"
	RegionAsiaPacific  Region = "AP"
)

// USD is the only currency reported under several regional rates
const USD = "USD"

// CurrencyKey returns the disambiguated key, for example "USD - RoW"
func (r Region) CurrencyKey(currency string) string {
	return currency + " - " + string(r)
}

type regionLabel struct {
	region    Region
	fragments []string
}

// regionLabels are the localized region names found in currency summaries.
// Reports are generated in English, French, German, Italian and Spanish.
// Order matters: the first region with a matching fragment wins.
var regionLabels = []regionLabel{
	{RegionRestOfWorld, []string{"of World", "du monde", "der Welt", "del mondo", "del mundo"}},
	{RegionLatinAmerica, []string{"Latin America", "Amérique latine", "latein", "America Latina", "América Latina"}},
	{RegionAsiaPacific, []string{"Asia Pacific", "Asia-Pacific", "Asie-Pacifique", "Asien-Pazifik", "Asia-Pacifico", "Asia Pacífico", "Asia-Pacífico"}},
}

// MatchRegionLabel finds the region named in a localized summary label, ignoring case
func MatchRegionLabel(label string) (Region, bool) {
	lowered := strings.ToLower(label)
	for _, candidate := range regionLabels {
		for _, fragment := range candidate.fragments {
			if strings.Contains(lowered, strings.ToLower(fragment)) {
				return candidate.region, true
			}
		}
	}
	return "", false
}

// Country groups used only for currency key disambiguation, see
// https://developer.apple.com/help/app-store-connect/reference/financial-report-regions-and-currencies
var (
	restOfWorldCountries = codeSet(
		"AF", "AL", "DZ", "AO", "AM", "AZ", "BH", "BY", "BJ", "BT", "BW", "BN", "BF", "KH", "CM", "CV", "TD", "CG",
		"CD", "CI", "HR", "EG", "FJ", "GA", "GM", "GE", "GH", "GW", "IS", "IQ", "JO", "KZ", "KE", "KR", "KW", "KG",
		"LA", "LB", "LR", "LY", "MO", "MK", "MG", "MW", "MY", "MV", "ML", "MR", "MU", "FM", "MD", "MA", "MZ", "MM",
		"NA", "NR", "NP", "NE", "NG", "OM", "PK", "PW", "PG", "PH", "QA", "RW", "ST", "SN", "SC", "SL", "SB", "LK",
		"SZ", "TJ", "TZ", "TO", "TN", "TM", "UG", "UA", "UZ", "VU", "VN", "YE", "ZM", "ZW",
	)

	latinAmericaCaribbeanCountries = codeSet(
		"AI", "AG", "AR", "BS", "BB", "BZ", "BM", "BO", "BR", "VG", "KY", "CL", "CR", "DM", "DO", "EC", "SV", "GD",
		"GY", "GT", "HN", "JM", "MS", "NI", "PA", "PY", "KN", "LC", "VC", "SR", "TT", "TC", "UY", "VE",
	)

	// pacificCountries only report "USD - AP" from the cutover on
	pacificCountries = codeSet(apacCodes...)
)

func codeSet(codes ...string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}

// InRestOfWorld reports whether code belongs to the Rest-of-World currency group
func InRestOfWorld(code string) bool { return restOfWorldCountries[code] }

// InLatinAmerica reports whether code belongs to the Latin-America-Caribbean currency group
func InLatinAmerica(code string) bool { return latinAmericaCaribbeanCountries[code] }

// InPacific reports whether code belongs to the Pacific currency group
func InPacific(code string) bool { return pacificCountries[code] }

// RegionalCurrencyKey relabels a ledger row's USD currency by the country's group.
// The checks run in a fixed order and a later match overwrites an earlier one.
func RegionalCurrencyKey(code, currency string, rowDate time.Time) string {
	key := currency
	if !rowDate.Before(Cutover) && InPacific(code) && currency == USD {
		key = RegionAsiaPacific.CurrencyKey(USD)
	}
	if InRestOfWorld(code) && currency == USD {
		key = RegionRestOfWorld.CurrencyKey(USD)
	}
	if InLatinAmerica(code) && currency == USD {
		key = RegionLatinAmerica.CurrencyKey(USD)
	}
	return key
}
