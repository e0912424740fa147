// Package naming holds the single Name type that every backend's "name" field
// decodes into, whatever shape the backend sent.
package naming

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// Unknown is shown when a name carries nothing displayable.
const Unknown = "Unknown"

// Kind tells which wire shape a Name was decoded from.
type Kind int

const (
	KindMissing   Kind = iota // null, absent or an unrecognised shape
	KindPlain                 // "Bangkok"
	KindLocalized             // {"en": "Bangkok", "th": "กรุงเทพมหานคร"}
	KindCoded                 // [{"code": "10", "name": "Bangkok"}]
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindLocalized:
		return "localized"
	case KindCoded:
		return "coded"
	default:
		return "missing"
	}
}

// Coded is one element of the coded-array shape.
type Coded struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Name is a tagged union over the three incoming shapes.
type Name struct {
	Kind  Kind
	Plain string
	EN    string
	TH    string
	Codes []Coded
}

func Plain(s string) Name { return Name{Kind: KindPlain, Plain: s} }

func Localized(en, th string) Name { return Name{Kind: KindLocalized, EN: en, TH: th} }

// UnmarshalJSON never fails on a well-formed JSON value: shapes it does not
// recognise decode to KindMissing.
func (n *Name) UnmarshalJSON(data []byte) error {
	*n = Name{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Plain(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		// เก็บเฉพาะค่าที่เป็น string; {"en": 5} ถือว่าไม่มี
		en, th := stringField(obj, "en"), stringField(obj, "th")
		if en == nil && th == nil {
			return nil
		}
		*n = Localized(deref(en), deref(th))
	case '[':
		var codes []Coded
		if err := json.Unmarshal(data, &codes); err != nil {
			// arrays of something else
			return nil
		}
		if len(codes) > 0 {
			*n = Name{Kind: KindCoded, Codes: codes}
		}
	}
	return nil
}

// MarshalJSON writes the localized object shape. Only the languages the
// source carried are written: a plain or coded name lands under "th" when it
// is in Thai script and under "en" otherwise.
func (n Name) MarshalJSON() ([]byte, error) {
	out := struct {
		EN string `json:"en,omitempty"`
		TH string `json:"th,omitempty"`
	}{}
	switch n.Kind {
	case KindMissing:
		return []byte("null"), nil
	case KindLocalized:
		out.EN, out.TH = strings.TrimSpace(n.EN), strings.TrimSpace(n.TH)
	default:
		if s := n.English(); isThai(s) {
			out.TH = s
		} else {
			out.EN = s
		}
	}
	return json.Marshal(out)
}

func isThai(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Thai, r) {
			return true
		}
	}
	return false
}

// English returns the best English rendering, or "" if there is none.
func (n Name) English() string {
	switch n.Kind {
	case KindPlain:
		return strings.TrimSpace(n.Plain)
	case KindLocalized:
		if s := strings.TrimSpace(n.EN); s != "" {
			return s
		}
	case KindCoded:
		for _, c := range n.Codes {
			if s := strings.TrimSpace(c.Name); s != "" {
				return s
			}
		}
	}
	return ""
}

// Thai returns the Thai rendering, falling back to English.
func (n Name) Thai() string {
	if n.Kind == KindLocalized {
		if s := strings.TrimSpace(n.TH); s != "" {
			return s
		}
	}
	return n.English()
}

func (n Name) String() string { return Display("", n) }

// Display picks the string shown for a record: an explicit en_name wins,
// then the name itself, then Unknown.
func Display(enName string, n Name) string {
	if s := strings.TrimSpace(enName); s != "" {
		return s
	}
	if s := n.English(); s != "" {
		return s
	}
	if s := n.Thai(); s != "" {
		return s
	}
	return Unknown
}

func stringField(obj map[string]json.RawMessage, key string) *string {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
