package location

import "sort"

// cityToAirport maps normalized city names to their primary airport code.
var cityToAirport = map[string]string{
	// African cities
	"durban":        "DUR",
	"harare":        "HRE",
	"cape town":     "CPT",
	"capetown":      "CPT",
	"johannesburg":  "JNB",
	"joburg":        "JNB",
	"jburg":         "JNB",
	"cairo":         "CAI",
	"lagos":         "LOS",
	"nairobi":       "NBO",
	"casablanca":    "CMN",
	"addis ababa":   "ADD",
	"dar es salaam": "DAR",
	"accra":         "ACC",
	"tunis":         "TUN",
	"algiers":       "ALG",
	"kigali":        "KGL",
	"lusaka":        "LUN",
	"maputo":        "MPM",
	"windhoek":      "WDH",
	"gaborone":      "GBE",
	"maseru":        "MSU",
	"mbabane":       "MTS",
	"blantyre":      "BLZ",
	"lilongwe":      "LLW",

	// International hubs
	"london":     "LHR",
	"paris":      "CDG",
	"new york":   "JFK",
	"newyork":    "JFK",
	"nyc":        "JFK",
	"los angeles": "LAX",
	"losangeles": "LAX",
	"chicago":    "ORD",
	"miami":      "MIA",
	"toronto":    "YYZ",
	"vancouver":  "YVR",
	"sydney":     "SYD",
	"melbourne":  "MEL",
	"tokyo":      "NRT",
	"beijing":    "PEK",
	"shanghai":   "PVG",
	"hong kong":  "HKG",
	"hongkong":   "HKG",
	"singapore":  "SIN",
	"bangkok":    "BKK",
	"mumbai":     "BOM",
	"delhi":      "DEL",
	"new delhi":  "DEL",
	"newdelhi":   "DEL",
	"dubai":      "DXB",
	"doha":       "DOH",
	"istanbul":   "IST",
	"moscow":     "SVO",
	"amsterdam":  "AMS",
	"frankfurt":  "FRA",
	"zurich":     "ZUR",
	"madrid":     "MAD",
	"barcelona":  "BCN",
	"rome":       "FCO",
	"milan":      "MXP",
	"vienna":     "VIE",
	"brussels":   "BRU",
	"stockholm":  "ARN",
	"oslo":       "OSL",
	"copenhagen": "CPH",
	"helsinki":   "HEL",
	"athens":     "ATH",
	"lisbon":     "LIS",
	"dublin":     "DUB",
	"edinburgh":  "EDI",
	"manchester": "MAN",
	"birmingham": "BHX",
	"glasgow":    "GLA",

	// US cities
	"atlanta":       "ATL",
	"boston":        "BOS",
	"dallas":        "DFW",
	"denver":        "DEN",
	"detroit":       "DTW",
	"houston":       "IAH",
	"las vegas":     "LAS",
	"lasvegas":      "LAS",
	"vegas":         "LAS",
	"minneapolis":   "MSP",
	"orlando":       "MCO",
	"philadelphia":  "PHL",
	"phoenix":       "PHX",
	"portland":      "PDX",
	"san francisco": "SFO",
	"sanfrancisco":  "SFO",
	"seattle":       "SEA",
	"washington":    "DCA",
	"washington dc": "DCA",
	"washingtondc":  "DCA",

	// Common shorthand and spelling variants
	"jo'burg":       "JNB",
	"jo-burg":       "JNB",
	"new york city": "JFK",
	"la":            "LAX",
	"sf":            "SFO",
	"dc":            "DCA",
}

// alternativeAirports lists additional valid codes for multi-airport cities,
// keyed by canonical city name.
var alternativeAirports = map[string][]string{
	"london":     {"LHR", "LGW", "STN", "LTN"},
	"new york":   {"JFK", "LGA", "EWR"},
	"paris":      {"CDG", "ORY"},
	"tokyo":      {"NRT", "HND"},
	"milan":      {"MXP", "LIN"},
	"rome":       {"FCO", "CIA"},
	"chicago":    {"ORD", "MDW"},
	"houston":    {"IAH", "HOU"},
	"washington": {"DCA", "IAD", "BWI"},
}

// countryToAirport maps normalized country names to one representative major
// airport.
var countryToAirport = map[string]string{
	// Africa
	"ethiopia":      "ADD",
	"south africa":  "JNB",
	"southafrica":   "JNB",
	"kenya":         "NBO",
	"nigeria":       "LOS",
	"egypt":         "CAI",
	"morocco":       "CMN",
	"ghana":         "ACC",
	"tanzania":      "DAR",
	"zimbabwe":      "HRE",
	"zambia":        "LUN",
	"botswana":      "GBE",
	"namibia":       "WDH",
	"uganda":        "EBB",
	"rwanda":        "KGL",
	"senegal":       "DKR",
	"ivory coast":   "ABJ",
	"ivorycoast":    "ABJ",
	"cote d'ivoire": "ABJ",
	"cotedivoire":   "ABJ",
	"tunisia":       "TUN",
	"algeria":       "ALG",
	"libya":         "TIP",
	"sudan":         "KRT",
	"madagascar":    "TNR",
	"mauritius":     "MRU",
	"seychelles":    "SEZ",

	// Rest of world
	"united states":        "JFK",
	"unitedstates":         "JFK",
	"usa":                  "JFK",
	"america":              "JFK",
	"united kingdom":       "LHR",
	"unitedkingdom":        "LHR",
	"uk":                   "LHR",
	"britain":              "LHR",
	"england":              "LHR",
	"france":               "CDG",
	"germany":              "FRA",
	"italy":                "FCO",
	"spain":                "MAD",
	"netherlands":          "AMS",
	"switzerland":          "ZUR",
	"austria":              "VIE",
	"belgium":              "BRU",
	"sweden":               "ARN",
	"norway":               "OSL",
	"denmark":              "CPH",
	"finland":              "HEL",
	"greece":               "ATH",
	"portugal":             "LIS",
	"ireland":              "DUB",
	"russia":               "SVO",
	"turkey":               "IST",
	"china":                "PEK",
	"japan":                "NRT",
	"india":                "DEL",
	"australia":            "SYD",
	"canada":               "YYZ",
	"brazil":               "GRU",
	"argentina":            "EZE",
	"mexico":               "MEX",
	"thailand":             "BKK",
	"singapore":            "SIN",
	"malaysia":             "KUL",
	"indonesia":            "CGK",
	"philippines":          "MNL",
	"vietnam":              "SGN",
	"south korea":          "ICN",
	"southkorea":           "ICN",
	"uae":                  "DXB",
	"united arab emirates": "DXB",
	"unitedarabemirates":   "DXB",
	"qatar":                "DOH",
	"saudi arabia":         "RUH",
	"saudiarabia":          "RUH",
	"israel":               "TLV",
	"iran":                 "IKA",
	"pakistan":             "KHI",
	"bangladesh":           "DAC",
	"sri lanka":            "CMB",
	"srilanka":             "CMB",
}

// cityAliases folds shorthand and variant spellings into canonical city names.
var cityAliases = map[string]string{
	"jo'burg":       "johannesburg",
	"joburg":        "johannesburg",
	"jburg":         "johannesburg",
	"cape town":     "cape town",
	"capetown":      "cape town",
	"nyc":           "new york",
	"new york city": "new york",
	"newyork":       "new york",
	"la":            "los angeles",
	"losangeles":    "los angeles",
	"sf":            "san francisco",
	"sanfrancisco":  "san francisco",
	"vegas":         "las vegas",
	"lasvegas":      "las vegas",
	"dc":            "washington",
	"washington dc": "washington",
	"washingtondc":  "washington",
	"new delhi":     "delhi",
	"newdelhi":      "delhi",
	"hong kong":     "hong kong",
	"hongkong":      "hong kong",
}

// fuzzyKeys is the sorted union of all lookup keys, built once so fuzzy
// matching scans a stable order.
var fuzzyKeys = func() []string {
	keys := make([]string, 0, len(cityToAirport)+len(countryToAirport)+len(cityAliases))
	for k := range cityToAirport {
		keys = append(keys, k)
	}
	for k := range countryToAirport {
		keys = append(keys, k)
	}
	for k := range cityAliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()
