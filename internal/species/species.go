// Package species holds the immutable species code lookup tables used to
// normalize the raw workbook's species names to the shared six-letter codes.
package species

import (
	"sort"
	"strings"
)

// Species describes one supported species.
type Species struct {
	Code           string // shared six-letter code
	ScientificName string
	CommonName     string
}

// supported maps the six-letter code to its species description. The table is
// package private and never mutated after init, lookups go through the
// accessor functions below.
var supported = map[string]Species{
	"PARMAJ": {Code: "PARMAJ", ScientificName: "Parus major", CommonName: "Great Tit"},
	"CYACAE": {Code: "CYACAE", ScientificName: "Cyanistes caeruleus", CommonName: "Blue Tit"},
	"FICHYP": {Code: "FICHYP", ScientificName: "Ficedula hypoleuca", CommonName: "Pied Flycatcher"},
	"PASMON": {Code: "PASMON", ScientificName: "Passer montanus", CommonName: "Tree Sparrow"},
	"PHOPHO": {Code: "PHOPHO", ScientificName: "Phoenicurus phoenicurus", CommonName: "Common Redstart"},
}

// aliases maps lowercased names found in raw workbooks to species codes.
// Field sheets record species by common name, scientific name or local
// shorthand, depending on the observer.
var aliases = map[string]string{
	"great tit":               "PARMAJ",
	"parus major":             "PARMAJ",
	"talitiainen":             "PARMAJ",
	"blue tit":                "CYACAE",
	"cyanistes caeruleus":     "CYACAE",
	"parus caeruleus":         "CYACAE",
	"sinitiainen":             "CYACAE",
	"pied flycatcher":         "FICHYP",
	"ficedula hypoleuca":      "FICHYP",
	"kirjosieppo":             "FICHYP",
	"tree sparrow":            "PASMON",
	"passer montanus":         "PASMON",
	"pikkuvarpunen":           "PASMON",
	"common redstart":         "PHOPHO",
	"redstart":                "PHOPHO",
	"phoenicurus phoenicurus": "PHOPHO",
	"leppälintu":              "PHOPHO",
}

// Lookup resolves a species code to its description.
func Lookup(code string) (Species, bool) {
	sp, ok := supported[strings.ToUpper(strings.TrimSpace(code))]
	return sp, ok
}

// Normalize resolves a raw species name or code from the workbook to the
// shared species code. Returns empty string and false when the name is not
// recognized, the caller decides whether that is fatal or a sentinel.
func Normalize(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", false
	}
	if code, ok := aliases[name]; ok {
		return code, true
	}
	// Raw value may already be a species code
	if sp, ok := supported[strings.ToUpper(name)]; ok {
		return sp.Code, true
	}
	return "", false
}

// Codes returns the supported species codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
