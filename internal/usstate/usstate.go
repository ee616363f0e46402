// Package usstate maps free-text US state identifiers to canonical
// two-letter postal codes.
package usstate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// codeByName maps canonical full names to postal codes. DC is included
// because the map widget plots it.
var codeByName = map[string]string{
	"Alabama":              "AL",
	"Alaska":               "AK",
	"Arizona":              "AZ",
	"Arkansas":             "AR",
	"California":           "CA",
	"Colorado":             "CO",
	"Connecticut":          "CT",
	"Delaware":             "DE",
	"Florida":              "FL",
	"Georgia":              "GA",
	"Hawaii":               "HI",
	"Idaho":                "ID",
	"Illinois":             "IL",
	"Indiana":              "IN",
	"Iowa":                 "IA",
	"Kansas":               "KS",
	"Kentucky":             "KY",
	"Louisiana":            "LA",
	"Maine":                "ME",
	"Maryland":             "MD",
	"Massachusetts":        "MA",
	"Michigan":             "MI",
	"Minnesota":            "MN",
	"Mississippi":          "MS",
	"Missouri":             "MO",
	"Montana":              "MT",
	"Nebraska":             "NE",
	"Nevada":               "NV",
	"New Hampshire":        "NH",
	"New Jersey":           "NJ",
	"New Mexico":           "NM",
	"New York":             "NY",
	"North Carolina":       "NC",
	"North Dakota":         "ND",
	"Ohio":                 "OH",
	"Oklahoma":             "OK",
	"Oregon":               "OR",
	"Pennsylvania":         "PA",
	"Rhode Island":         "RI",
	"South Carolina":       "SC",
	"South Dakota":         "SD",
	"Tennessee":            "TN",
	"Texas":                "TX",
	"Utah":                 "UT",
	"Vermont":              "VT",
	"Virginia":             "VA",
	"Washington":           "WA",
	"West Virginia":        "WV",
	"Wisconsin":            "WI",
	"Wyoming":              "WY",
	"District Of Columbia": "DC",
}

// lookup is the pre-expanded table: every case variant of every full name
// and every case variant of every code maps to the canonical code.
var lookup = buildLookup()

// nameByCode is the reverse of codeByName, for display and flag URLs.
var nameByCode = buildReverse()

var titleCaser = cases.Title(language.AmericanEnglish)

func buildLookup() map[string]string {
	m := make(map[string]string, len(codeByName)*7)
	for name, code := range codeByName {
		m[name] = code
		m[titleCaser.String(name)] = code
		m[strings.ToUpper(name)] = code
		m[strings.ToLower(name)] = code
		m[code] = code
		m[strings.ToUpper(code)] = code
		m[strings.ToLower(code)] = code
	}
	return m
}

func buildReverse() map[string]string {
	m := make(map[string]string, len(codeByName))
	for name, code := range codeByName {
		m[code] = name
	}
	return m
}

// Normalize resolves a free-text state identifier to its canonical
// two-letter code. Inputs of length <= 2 are treated as codes and
// upper-cased; longer inputs are treated as full names and title-cased.
// The second return is false when the identifier is not a known state.
func Normalize(identifier string) (string, bool) {
	s := strings.TrimSpace(identifier)
	if s == "" {
		return "", false
	}
	if len(s) <= 2 {
		s = strings.ToUpper(s)
	} else {
		s = titleCaser.String(s)
	}
	code, ok := lookup[s]
	return code, ok
}

// Name returns the canonical full name for a two-letter code.
func Name(code string) (string, bool) {
	name, ok := nameByCode[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// FlagURL returns the Wikimedia Commons flag image URL for a state code,
// or "" for unknown codes. Georgia's file name carries a disambiguator.
func FlagURL(code string) string {
	name, ok := Name(code)
	if !ok {
		return ""
	}
	file := "Flag_of_" + strings.ReplaceAll(name, " ", "_") + ".svg"
	if name == "Georgia" {
		file = "Flag_of_Georgia_(U.S._state).svg"
	}
	return "https://commons.wikimedia.org/wiki/Special:FilePath/" + file
}
