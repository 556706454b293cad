package app

import (
	"encoding/json"

	"github.com/radroots/radroots/pkg/nostr/relayinfo"
)

// Field is the closed set of relay information document fields recognized by
// the poller. Anything outside it is dropped on merge.
type Field int

const (
	FieldName Field = iota
	FieldDescription
	FieldPubKey
	FieldContact
	FieldSupportedNIPs
	FieldSoftware
	FieldVersion
	FieldIcon
)

// Column returns the nostr_relay column a field merges into.
func (f Field) Column() string {
	switch f {
	case FieldName:
		return "name"
	case FieldDescription:
		return "description"
	case FieldPubKey:
		return "pubkey"
	case FieldContact:
		return "contact"
	case FieldSupportedNIPs:
		return "supported_nips"
	case FieldSoftware:
		return "software"
	case FieldVersion:
		return "version"
	case FieldIcon:
		return "icon"
	}
	return ""
}

// FieldFromKey resolves a document key to a recognized field, accepting the
// protocol synonyms some relays use.
func FieldFromKey(k string) (f Field, ok bool) {
	switch k {
	case "name":
		return FieldName, true
	case "description":
		return FieldDescription, true
	case "pubkey", "public_key":
		return FieldPubKey, true
	case "contact":
		return FieldContact, true
	case "supported_nips", "nips":
		return FieldSupportedNIPs, true
	case "software":
		return FieldSoftware, true
	case "version":
		return FieldVersion, true
	case "icon", "icon_url":
		return FieldIcon, true
	}
	return 0, false
}

// MapFields reduces an arbitrary document key set to the recognized fields.
// Unrecognized keys are dropped silently; an empty result means the caller
// has nothing to persist and must skip the store write.
func MapFields(doc map[string]any) map[Field]string {
	fields := make(map[Field]string)
	for k, v := range doc {
		f, ok := FieldFromKey(k)
		if !ok {
			continue
		}
		fields[f] = fieldValue(v)
	}
	return fields
}

// DocumentFields decodes the raw information document and maps it. A nil
// document or undecodable body maps to nothing.
func DocumentFields(info *relayinfo.T) map[Field]string {
	if info == nil || len(info.Raw) == 0 {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(info.Raw, &doc); err != nil {
		return nil
	}
	return MapFields(doc)
}

// Columns rewrites a field mapping onto store column names.
func Columns(fields map[Field]string) map[string]string {
	cols := make(map[string]string, len(fields))
	for f, v := range fields {
		cols[f.Column()] = v
	}
	return cols
}

// fieldValue renders a document value as the string the store keeps: strings
// pass through, everything else (nip arrays, limitation objects, numbers) is
// compact JSON.
func fieldValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
