package external

// emarsysCountries maps ISO 3166-1 alpha-3 codes to the Emarsys single-choice
// country field values.
// https://help.emarsys.com/hc/en-us/articles/115004634749
var emarsysCountries = map[string]int32{
	"AFG": 1, "ALB": 2, "DZA": 3, "AND": 4, "AGO": 5, "ATG": 6, "ARG": 7,
	"ARM": 8, "AUS": 9, "AUT": 10, "AZE": 11, "BHS": 12, "BHR": 13,
	"BGD": 14, "BRB": 15, "BLR": 16, "BEL": 17, "BLZ": 18, "BEN": 19,
	"BTN": 20, "BOL": 21, "BIH": 22, "BWA": 23, "BRA": 24, "BRN": 25,
	"BGR": 26, "BFA": 27, "BUR": 28, "BDI": 29, "KHM": 30, "CMR": 31,
	"CAN": 32, "CPV": 33, "CAF": 34, "TCD": 35, "CHL": 36, "CHN": 37,
	"COL": 38, "COM": 39, "COG": 40, "COD": 41, "CRI": 42, "CIV": 43,
	"HRV": 44, "CUB": 45, "CYP": 46, "CZE": 47, "DNK": 48, "DJI": 49,
	"DMA": 50, "DOM": 51, "ECU": 52, "EGY": 53, "SLV": 54, "GNQ": 55,
	"ERI": 56, "EST": 57, "ETH": 58, "FJI": 59, "FIN": 60, "FRA": 61,
	"GAB": 62, "GMB": 63, "GEO": 64, "DEU": 65, "GHA": 66, "GRC": 67,
	"GRD": 68, "GTM": 69, "GIN": 70, "GNB": 71, "GUY": 72, "HTI": 73,
	"HND": 74, "HUN": 75, "ISL": 76, "IND": 77, "IDN": 78, "IRN": 79,
	"IRQ": 80, "IRL": 81, "ISR": 82, "ITA": 83, "JAM": 84, "JPN": 85,
	"JOR": 86, "KAZ": 87, "KEN": 88, "KIR": 89, "PRK": 90, "KOR": 91,
	"KWT": 92, "KGZ": 93, "LAO": 94, "LVA": 95, "LBN": 96, "LSO": 97,
	"LBR": 98, "LBY": 99, "LIE": 100, "LTU": 101, "LUX": 102, "MKD": 103,
	"MDG": 104, "MWI": 105, "MYS": 106, "MDV": 107, "MLI": 108, "MLT": 109,
	"MHL": 110, "MRT": 111, "MUS": 112, "MEX": 113, "FSM": 114, "MDA": 115,
	"MCO": 116, "MNG": 117, "MAR": 118, "MOZ": 119, "MMR": 120, "NAM": 121,
	"NRU": 122, "NPL": 123, "NLD": 124, "NZL": 125, "NIC": 126, "NER": 127,
	"NGA": 128, "NOR": 129, "OMN": 130, "PAK": 131, "PLW": 132, "PAN": 134,
	"PNG": 135, "PRY": 136, "PER": 137, "PHL": 138, "POL": 139, "PRT": 140,
	"QAT": 141, "ROU": 142, "RUS": 143, "RWA": 144, "KNA": 145, "LCA": 146,
	"VCT": 147, "WSM": 148, "SMR": 149, "STP": 150, "SAU": 151, "SEN": 152,
	"SRB": 153, "SYC": 154, "SLE": 155, "SGP": 156, "SVK": 157, "SVN": 158,
	"SLB": 159, "SOM": 160, "ZAF": 161, "ESP": 162, "LKA": 163, "SDN": 164,
	"SUR": 165, "SWZ": 166, "SWE": 167, "CHE": 168, "SYR": 169, "TWN": 170,
	"TJK": 171, "TZA": 172, "THA": 173, "TGO": 174, "TON": 175, "TTO": 176,
	"TUN": 177, "TUR": 178, "TKM": 179, "TUV": 180, "UGA": 181, "UKR": 182,
	"ARE": 183, "GBR": 184, "USA": 185, "URY": 186, "UZB": 187, "VUT": 188,
	"VAT": 189, "VEN": 190, "VNM": 191, "ESH": 192, "YEM": 193, "SCG": 194,
	"ZAR": 195, "ZMB": 196, "ZWE": 197, "GRL": 198, "VGB": 199, "MNE": 202,
	"GIB": 203, "ANT": 204, "HKG": 205, "MAC": 206, "TLS": 258, "UNK": 259,
}

// emarsysCountryCode resolves an alpha-3 code to the provider's country
// value. Unknown codes report false and the field is omitted.
func emarsysCountryCode(alpha3 string) (int32, bool) {
	code, ok := emarsysCountries[alpha3]
	return code, ok
}
