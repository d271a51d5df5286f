package catalog

// staticCountries is the built-in ISO 3166 alpha-2 table, names in Spanish as
// they appear on customs paperwork. An overlay replaces or extends entries.
var staticCountries = map[string]string{
	"AD": "ANDORRA",
	"AE": "EMIRATOS ARABES UNIDOS",
	"AF": "AFGANISTAN",
	"AG": "ANTIGUA Y BARBUDA",
	"AI": "ANGUILA",
	"AL": "ALBANIA",
	"AM": "ARMENIA",
	"AN": "ANTILLAS HOLANDESAS",
	"AO": "ANGOLA",
	"AQ": "ANTARTIDA",
	"AR": "ARGENTINA",
	"AS": "SAMOA AMERICANA",
	"AT": "AUSTRIA",
	"AU": "AUSTRALIA",
	"AW": "ARUBA",
	"AX": "ALAND, ISLAS",
	"AZ": "AZERBAIYAN",
	"BA": "BOSNIA Y HERZEGOVINA",
	"BB": "BARBADOS",
	"BD": "BANGLADESH",
	"BE": "BELGICA",
	"BF": "BURKINA FASO",
	"BG": "BULGARIA",
	"BH": "BAHREIN",
	"BI": "BURUNDI",
	"BJ": "BENIN",
	"BL": "SAN BARTOLOME",
	"BM": "BERMUDAS",
	"BN": "BRUNEI",
	"BO": "BOLIVIA, ESTADO PLURINACIONAL DE",
	"BQ": "BONAIRE, SAN EUSTAQUIO Y SABA",
	"BR": "BRASIL",
	"BS": "BAHAMAS",
	"BT": "BHUTAN",
	"BV": "BOUVET, ISLA",
	"BW": "BOTSWANA",
	"BY": "BELARUS",
	"BZ": "BELICE",
	"CA": "CANADA",
	"CC": "COCOS (KEELING), ISLAS",
	"CD": "CONGO, LA REPUBLICA DEMOCRATICA DEL",
	"CF": "AFRICA CENTRAL, REPUBLICA DE",
	"CG": "CONGO",
	"CH": "SUIZA",
	"CI": "COSTA DE MARFIL",
	"CK": "COOK, ISLAS",
	"CL": "CHILE",
	"CM": "CAMERUN",
	"CN": "CHINA",
	"CO": "COLOMBIA",
	"CR": "COSTA RICA",
	"CU": "CUBA",
	"CV": "CABO VERDE",
	"CW": "CURA\u00c7AO",
	"CX": "NAVIDAD, ISLA",
	"CY": "CHIPRE",
	"CZ": "REPUBLICA CHECA",
	"DE": "ALEMANIA",
	"DJ": "DJIBOUTI",
	"DK": "DINAMARCA",
	"DM": "DOMINICA",
	"DO": "REPUBLICA DOMINICANA",
	"DZ": "ARGELIA",
	"EC": "ECUADOR",
	"EE": "ESTONIA",
	"EG": "EGIPTO",
	"EH": "SAHARA OCCIDENTAL",
	"ER": "ERITREA",
	"ES": "ESPA\u00d1A",
	"ET": "ETIOPIA",
	"FI": "FINLANDIA",
	"FJ": "FIYI",
	"FK": "MALVINAS, ISLAS (FALKLAND)",
	"FM": "MICRONESIA, ESTADOS FEDERADOS DE",
	"FO": "FEROE, ISLAS",
	"FR": "FRANCIA",
	"GA": "GABON",
	"GB": "REINO UNIDO",
	"GD": "GRANADA",
	"GE": "GEORGIA",
	"GF": "GUAYANA FRANCESA",
	"GG": "GUERNSEY",
	"GH": "GHANA",
	"GI": "GIBRALTAR",
	"GL": "GROENLANDIA",
	"GM": "GAMBIA",
	"GN": "GUINEA",
	"GP": "GUADELUPE",
	"GQ": "GUINEA ECUATORIAL",
	"GR": "GRECIA",
	"GS": "GEORGIA DEL SUR E ISLAS SANDWICH DEL SUR",
	"GT": "GUATEMALA",
	"GU": "GUAM",
	"GW": "GUINEA-BISSAU",
	"GY": "GUYANA",
	"HK": "HONG KONG",
	"HM": "HEARD Y MCDONALD, ISLAS",
	"HN": "HONDURAS",
	"HR": "CROACIA",
	"HT": "HAITI",
	"HU": "HUNGRIA",
	"ID": "INDONESIA",
	"IE": "IRLANDA",
	"IL": "ISRAEL",
	"IM": "ISLA DE MAN",
	"IN": "INDIA",
	"IO": "TERRITORIO BRITANICO DEL OCEANO INDICO",
	"IQ": "IRAQ",
	"IR": "IRAN, REPUBLICA ISLAMICA DE",
	"IS": "ISLANDIA",
	"IT": "ITALIA",
	"JE": "JERSEY",
	"JM": "JAMAICA",
	"JO": "JORDANIA",
	"JP": "JAPON",
	"KE": "KENIA",
	"KG": "KIRGUISTAN",
	"KH": "CAMBOYA",
	"KI": "KIRIBATI",
	"KM": "COMORAS",
	"KN": "SAN CRISTOBAL Y NIEVES",
	"KP": "COREA, REPUBLICA POPULAR DEMOCRATICA DE",
	"KR": "COREA, REPUBLICA DE",
	"KW": "KUWAIT",
	"KY": "CAIMAN, ISLAS",
	"KZ": "KAZAJSTAN",
	"LA": "LAO, REPUBLICA DEMOCRATICA POPULAR",
	"LB": "LIBANO",
	"LC": "SANTA LUCIA",
	"LI": "LIECHTENSTEIN",
	"LK": "SRI LANKA",
	"LR": "LIBERIA",
	"LS": "LESOTHO",
	"LT": "LITUANIA",
	"LU": "LUXEMBURGO",
	"LV": "LETONIA",
	"LY": "LIBIA",
	"MA": "MARRUECOS",
	"MC": "MONACO",
	"MD": "MOLDAVIA, REPUBLICA DE",
	"ME": "MONTENEGRO",
	"MF": "SAN MARTIN (PARTE FRANCESA)",
	"MG": "MADAGASCAR",
	"MH": "MARSHALL, ISLAS",
	"MK": "MACEDONIA DEL NORTE",
	"ML": "MALI",
	"MM": "MYANMAR",
	"MN": "MONGOLIA",
	"MO": "MACAO",
	"MP": "MARIANAS DEL NORTE, ISLAS",
	"MQ": "MARTINICA",
	"MR": "MAURITANIA",
	"MS": "MONTSERRAT",
	"MT": "MALTA",
	"MU": "MAURICIO",
	"MV": "MALDIVAS",
	"MW": "MALAWI",
	"MX": "MEXICO",
	"MY": "MALASIA",
	"MZ": "MOZAMBIQUE",
	"NA": "NAMIBIA",
	"NC": "NUEVA CALEDONIA",
	"NE": "NIGER",
	"NF": "NORFOLK, ISLA",
	"NG": "NIGERIA",
	"NI": "NICARAGUA",
	"NL": "PAISES BAJOS",
	"NO": "NORUEGA",
	"NP": "NEPAL",
	"NR": "NAURU",
	"NU": "NIUE",
	"NZ": "NUEVA ZELANDA",
	"OM": "OMAN",
	"PA": "PANAMA",
	"PE": "PERU",
	"PF": "POLINESIA FRANCESA",
	"PG": "PAPUA NUEVA GUINEA",
	"PH": "FILIPINAS",
	"PK": "PAKISTAN",
	"PL": "POLONIA",
	"PM": "SAN PEDRO Y MIQUELON",
	"PN": "PITCAIRN",
	"PR": "PUERTO RICO",
	"PS": "TERRITORIO PALESTINO OCUPADO",
	"PT": "PORTUGAL",
	"PW": "PALAU",
	"PY": "PARAGUAY",
	"QA": "QATAR",
	"RE": "REUNION",
	"RO": "RUMANIA",
	"RS": "SERBIA",
	"RU": "FEDERACION DE RUSIA",
	"RW": "RUANDA",
	"SA": "ARABIA SAUDITA",
	"SB": "SALOMON, ISLAS",
	"SC": "SEYCHELLES",
	"SD": "SUDAN",
	"SE": "SUECIA",
	"SG": "SINGAPUR",
	"SH": "SANTA ELENA, ASCENSION Y TRISTAN DE CUNHA",
	"SI": "ESLOVENIA",
	"SJ": "SVALBARD Y JAN MAYEN",
	"SK": "ESLOVAQUIA",
	"SL": "SIERRA LEONA",
	"SM": "SAN MARINO",
	"SN": "SENEGAL",
	"SO": "SOMALIA",
	"SR": "SURINAM",
	"SS": "SUDAN DEL SUR",
	"ST": "SANTO TOME Y PRINCIPE",
	"SV": "EL SALVADOR",
	"SX": "SINT MAARTEN (PARTE HOLANDESA)",
	"SY": "REPUBLICA ARABE SIRIA",
	"SZ": "ESWATINI",
	"TC": "TURCAS Y CAICOS, ISLAS",
	"TD": "CHAD",
	"TF": "TERRITORIOS AUSTRALES FRANCESES",
	"TG": "TOGO",
	"TH": "TAILANDIA",
	"TJ": "TAYIKISTAN",
	"TK": "TOKELAU",
	"TL": "TIMOR-LESTE",
	"TM": "TURKMENISTAN",
	"TN": "TUNEZ",
	"TO": "TONGA",
	"TR": "TURQUIA",
	"TT": "TRINIDAD Y TOBAGO",
	"TV": "TUVALU",
	"TW": "TAIWAN, PROVINCIA DE CHINA",
	"TZ": "TANZANIA, REPUBLICA UNIDA DE",
	"UA": "UCRANIA",
	"UG": "UGANDA",
	"UM": "ISLAS MENORES ALEJADAS DE LOS ESTADOS UNIDOS",
	"US": "ESTADOS UNIDOS",
	"UY": "URUGUAY",
	"UZ": "UZBEKISTAN",
	"VA": "SANTA SEDE (CIUDAD DEL VATICANO)",
	"VC": "SAN VICENTE Y LAS GRANADINAS",
	"VE": "VENEZUELA, REPUBLICA BOLIVARIANA DE",
	"VG": "ISLAS VIRGENES (BRITANICAS)",
	"VI": "ISLAS VIRGENES (EE.UU.)",
	"VN": "VIET NAM",
	"VU": "VANUATU",
	"WF": "WALLIS Y FUTUNA",
	"WS": "SAMOA",
	"YE": "YEMEN",
	"YT": "MAYOTTE",
	"ZA": "SUDAFRICA",
	"ZM": "ZAMBIA",
	"ZW": "ZIMBABWE",
}

// englishCountryNames resolves common English spellings that the Spanish
// table does not cover.
var englishCountryNames = map[string]string{
	"UNITED STATES":            "US",
	"UNITED STATES OF AMERICA": "US",
	"USA":                      "US",
	"MEXICO":                   "MX",
	"CANADA":                   "CA",
	"GERMANY":                  "DE",
	"JAPAN":                    "JP",
	"SOUTH KOREA":              "KR",
	"KOREA":                    "KR",
	"TAIWAN":                   "TW",
	"UNITED KINGDOM":           "GB",
	"ENGLAND":                  "GB",
	"FRANCE":                   "FR",
	"ITALY":                    "IT",
	"SPAIN":                    "ES",
	"NETHERLANDS":              "NL",
	"SWITZERLAND":              "CH",
	"BRAZIL":                   "BR",
	"VIETNAM":                  "VN",
	"PHILIPPINES":              "PH",
	"THAILAND":                 "TH",
	"MALAYSIA":                 "MY",
	"SINGAPORE":                "SG",
	"INDIA":                    "IN",
	"CHINA":                    "CN",
	"HONG KONG":                "HK",
}
