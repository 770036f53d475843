package sitechat

import (
	"encoding/json"
	"sort"
)

// internalGroup is the link category fetchers use for same-site links.
// It is flattened ahead of other groups so in-site links are
// discovered first.
const internalGroup = "internal"

// LinkRef is a single outbound link reference. On the wire it may be a
// bare string or a record carrying an "href"-like field; both decode
// into this struct. Unrecognized shapes decode to a zero LinkRef and
// are skipped during flattening.
type LinkRef struct {
	Href string `json:"href"`
	Text string `json:"text,omitempty"`
}

// UnmarshalJSON accepts either a bare string or an {href, text} object.
func (l *LinkRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = LinkRef{Href: s}
		return nil
	}

	var rec struct {
		Href string `json:"href"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &rec); err == nil {
		*l = LinkRef{Href: rec.Href, Text: rec.Text}
		return nil
	}

	// Unrecognized shape: skip, don't fail.
	*l = LinkRef{}
	return nil
}

// LinkData is the loosely-shaped link collection attached to a fetch
// result. Fetchers may produce a flat list of links or a categorized
// map of lists (e.g. "internal"/"external" groups); exactly one of the
// two fields is normally populated.
type LinkData struct {
	Flat   []LinkRef            `json:"-"`
	Groups map[string][]LinkRef `json:"-"`
}

// UnmarshalJSON accepts a flat array, a category map of arrays, or
// anything else (which decodes to empty link data). Group values that
// are not arrays are skipped.
func (d *LinkData) UnmarshalJSON(data []byte) error {
	*d = LinkData{}

	var flat []LinkRef
	if err := json.Unmarshal(data, &flat); err == nil {
		d.Flat = flat
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		for key, val := range raw {
			var links []LinkRef
			if err := json.Unmarshal(val, &links); err != nil {
				continue
			}
			if d.Groups == nil {
				d.Groups = make(map[string][]LinkRef)
			}
			d.Groups[key] = links
		}
		return nil
	}

	return nil
}

// MarshalJSON emits the populated shape: the flat list if present,
// otherwise the group map, otherwise an empty array.
func (d LinkData) MarshalJSON() ([]byte, error) {
	if d.Flat != nil {
		return json.Marshal(d.Flat)
	}
	if d.Groups != nil {
		return json.Marshal(d.Groups)
	}
	return []byte("[]"), nil
}

// Empty reports whether no link data is present.
func (d LinkData) Empty() bool {
	return len(d.Flat) == 0 && len(d.Groups) == 0
}

// Hrefs flattens the link data into raw href strings. Order is
// deterministic for identical input: flat links first in their
// original order, then the "internal" group, then the remaining groups
// in sorted key order. Links with an empty href are dropped.
func (d LinkData) Hrefs() []string {
	var hrefs []string

	appendGroup := func(links []LinkRef) {
		for _, l := range links {
			if l.Href == "" {
				continue
			}
			hrefs = append(hrefs, l.Href)
		}
	}

	appendGroup(d.Flat)

	if len(d.Groups) == 0 {
		return hrefs
	}

	appendGroup(d.Groups[internalGroup])

	keys := make([]string, 0, len(d.Groups))
	for key := range d.Groups {
		if key == internalGroup {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		appendGroup(d.Groups[key])
	}

	return hrefs
}
