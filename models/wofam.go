package models

import (
	"strings"
)

const (
	recordSeparator = ";"
	fieldSeparator  = "/"
	wofamFields     = 5
)

// Record is one lexical evidence record of a link:
// wordId/_/_/languageKey/familyLabel. The two unnamed fields are kept so a
// record encodes back to exactly what was parsed.
type Record struct {
	Fields [wofamFields]string
}

// WordID returns the word identifier of the record.
func (r Record) WordID() Key { return Key(r.Fields[0]) }

// LanguageKey returns the language key of the record.
func (r Record) LanguageKey() string { return r.Fields[3] }

// Family returns the language family label of the record.
func (r Record) Family() string { return r.Fields[4] }

// Encode returns the record in its slash separated form.
func (r Record) Encode() string {
	return strings.Join(r.Fields[:], fieldSeparator)
}

// ParseRecord parses a single slash separated record.
func ParseRecord(s string) (Record, error) {
	parts := strings.Split(s, fieldSeparator)
	if len(parts) != wofamFields {
		return Record{}, &MalformedRecordError{Record: s, Fields: len(parts)}
	}
	var r Record
	copy(r.Fields[:], parts)
	return r, nil
}

// SplitWofam splits an encoded evidence string into its raw records. An
// empty string holds no records.
func SplitWofam(wofam string) []string {
	if wofam == "" {
		return nil
	}
	return strings.Split(wofam, recordSeparator)
}

// ParseWofam parses every record of an encoded evidence string. Malformed
// records are skipped and reported in errs; records keep their input order.
func ParseWofam(wofam string) (records []Record, errs []error) {
	for _, raw := range SplitWofam(wofam) {
		r, err := ParseRecord(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, r)
	}
	return records, errs
}

// EncodeWofam joins records back into the encoded evidence string.
func EncodeWofam(records []Record) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Encode()
	}
	return strings.Join(parts, recordSeparator)
}
