package models

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// identityKeys are never taken from import bundles.
var identityKeys = []string{"_id", "__v"}

// metaKeys are never taken from client input on update.
var metaKeys = []string{"_id", "__v", "createdAt", "updatedAt"}

// MergeShallow overlays the top-level keys of patch onto dst (a pointer to a
// document). A key present in patch replaces the whole value in dst: nested
// objects are not merged. Bookkeeping keys in patch are ignored.
func MergeShallow(dst any, patch map[string]json.RawMessage) error {
	cur, err := toRawMap(dst)
	if err != nil {
		return err
	}
	for k, v := range patch {
		if isMetaKey(k) {
			continue
		}
		cur[k] = v
	}
	return fromRawMap(cur, dst)
}

func isMetaKey(k string) bool {
	for _, m := range metaKeys {
		if k == m {
			return true
		}
	}
	return false
}

// DecodeStripped decodes one bundle item into dst after dropping its
// identity keys, so the store assigns a fresh _id and version.
func DecodeStripped(raw json.RawMessage, dst any) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("item is not an object: %w", err)
	}
	if m == nil {
		return fmt.Errorf("item is null")
	}
	for _, k := range identityKeys {
		delete(m, k)
	}
	return fromRawMap(m, dst)
}

// StripIdentity returns the JSON object for doc without identity keys.
func StripIdentity(doc any) (map[string]json.RawMessage, error) {
	m, err := toRawMap(doc)
	if err != nil {
		return nil, err
	}
	for _, k := range identityKeys {
		delete(m, k)
	}
	return m, nil
}

func toRawMap(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// fromRawMap decodes m into a zeroed *dst; json.Unmarshal alone would merge
// into nested structs that already hold values.
func fromRawMap(m map[string]json.RawMessage, dst any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", dst)
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(b, fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}
