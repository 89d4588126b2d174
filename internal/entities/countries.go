package entities

// Country display names per entity, see
// https://developer.apple.com/help/app-store-connect/reference/apple-legal-entities/

var australiaCountries = map[string]string{
	"AU": "Australia",
	"NZ": "New Zealand",
}

var canadaCountries = map[string]string{
	"CA": "Canada",
}

var usCountries = map[string]string{
	"US": "United States",
}

var japanCountries = map[string]string{
	"JP": "Japan",
}

var latamCountries = map[string]string{
	"AI": "Anguilla",
	"AG": "Antigua & Barbuda",
	"AR": "Argentina",
	"BS": "Bahamas",
	"BB": "Barbados",
	"BZ": "Belize",
	"BM": "Bermuda",
	"BO": "Bolivia",
	"BR": "Brazil",
	"VG": "British Virgin Islands",
	"KY": "Cayman Islands",
	"CL": "Chile",
	"CO": "Colombia",
	"CR": "Costa Rica",
	"DM": "Dominica",
	"DO": "Dominican Republic",
	"EC": "Ecuador",
	"SV": "El Salvador",
	"GD": "Grenada",
	"GY": "Guyana",
	"GT": "Guatemala",
	"HN": "Honduras",
	"JM": "Jamaica",
	"MX": "Mexico",
	"MS": "Montserrat",
	"NI": "Nicaragua",
	"PA": "Panama",
	"PY": "Paraguay",
	"PE": "Peru",
	"KN": "St. Kitts & Nevis",
	"LC": "St. Lucia",
	"VC": "St. Vincent & The Grenadines",
	"SR": "Suriname",
	"TT": "Trinidad & Tobago",
	"TC": "Turks & Caicos",
	"UY": "Uruguay",
	"VE": "Venezuela",
}

// apacCodes move from Europe to APAC on the cutover date
var apacCodes = []string{
	"BT", "BN", "KH", "FM", "FJ", "KR", "LA", "MO", "MV", "MN",
	"MM", "NR", "NP", "PW", "PG", "SB", "LK", "TO", "VU",
}

// europeCountries is Europe's membership before the cutover
var europeCountries = map[string]string{
	"AF": "Afghanistan",
	"AL": "Albania",
	"DZ": "Algeria",
	"AO": "Angola",
	"AM": "Armenia",
	"AT": "Austria",
	"AZ": "Azerbaijan",
	"BH": "Bahrain",
	"BY": "Belarus",
	"BE": "Belgium",
	"BJ": "Benin",
	"BT": "Bhutan",
	"BA": "Bosnia and Herzegovina",
	"BW": "Botswana",
	"BN": "Brunei",
	"BG": "Bulgaria",
	"BF": "Burkina-Faso",
	"KH": "Cambodia",
	"CM": "Cameroon",
	"CV": "Cape Verde",
	"TD": "Chad",
	"CN": "China",
	"CD": "Democratic Republic of Congo",
	"CG": "Republic of Congo",
	"CI": "Cote d’Ivoire",
	"HR": "Croatia",
	"CY": "Cyprus",
	"CZ": "Czech Republic",
	"DK": "Denmark",
	"EG": "Egypt",
	"EE": "Estonia",
	"FJ": "Fiji",
	"FI": "Finland",
	"FR": "France",
	"GA": "Gabon",
	"GM": "Gambia",
	"GE": "Georgia",
	"DE": "Germany",
	"GH": "Ghana",
	"GR": "Greece",
	"GW": "Guinea-Bissau",
	"HK": "Hong Kong",
	"HU": "Hungary",
	"IS": "Iceland",
	"IN": "India",
	"ID": "Indonesia",
	"IQ": "Iraq",
	"IE": "Ireland",
	"IL": "Israel",
	"IT": "Italy",
	"JO": "Jordan",
	"KZ": "Kazakhstan",
	"KE": "Kenya",
	"KR": "Korea",
	"XK": "Kosovo",
	"KW": "Kuwait",
	"KG": "Kyrgyzstan",
	"LA": "Laos",
	"LV": "Latvia",
	"LB": "Lebanon",
	"LR": "Liberia",
	"LY": "Libya",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"MO": "Macao",
	"MK": "Macedonia",
	"MG": "Madagascar",
	"MW": "Malawi",
	"MY": "Malaysia",
	"MV": "Maldives",
	"ML": "Mali",
	"MT": "Republic of Malta",
	"MR": "Mauritania",
	"MU": "Mauritius",
	"FM": "Federal States of Micronesia",
	"MD": "Moldova",
	"MN": "Mongolia",
	"ME": "Montenegro",
	"MA": "Morocco",
	"MZ": "Mozambique",
	"MM": "Myanmar",
	"NA": "Namibia",
	"NR": "Nauru",
	"NP": "Nepal",
	"NL": "Netherlands",
	"NE": "Niger",
	"NG": "Nigeria",
	"NO": "Norway",
	"OM": "Oman",
	"PK": "Pakistan",
	"PW": "Palau",
	"PG": "Papua New Guinea",
	"PH": "Philippines",
	"PL": "Poland",
	"PT": "Portugal",
	"QA": "Qatar",
	"RO": "Romania",
	"RU": "Russia",
	"RW": "Rwanda",
	"ST": "Sao Tome e Principe",
	"SA": "Saudi Arabia",
	"SN": "Senegal",
	"RS": "Serbia",
	"SC": "Seychelles",
	"SL": "Sierra Leone",
	"SG": "Singapore",
	"SK": "Slovakia",
	"SI": "Slovenia",
	"SB": "Solomon Islands",
	"ZA": "South Africa",
	"ES": "Spain",
	"LK": "Sri Lanka",
	"SZ": "Swaziland",
	"SE": "Sweden",
	"CH": "Switzerland",
	"TW": "Taiwan",
	"TJ": "Tajikistan",
	"TZ": "Tanzania",
	"TH": "Thailand",
	"TO": "Tonga",
	"TN": "Tunisia",
	"TR": "Türkiye",
	"TM": "Turkmenistan",
	"AE": "United Arab Emirates",
	"UG": "Uganda",
	"UA": "Ukraine",
	"GB": "United Kingdom",
	"UZ": "Uzbekistan",
	"VU": "Vanuatu",
	"VN": "Vietnam",
	"YE": "Yemen",
	"ZM": "Zambia",
	"ZW": "Zimbabwe",
}
