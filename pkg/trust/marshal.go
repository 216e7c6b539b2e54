package trust

import (
	"encoding/json"
)

// The enums serialize as their lowercase names so stored credentials
// and CLI output stay readable. Unrecognized names decode to the
// corresponding unknown value, never to an error.

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*k = ParseKind(s)
	return nil
}

func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*k = ParseKind(s)
	return nil
}

func (p Proficiency) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Proficiency) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = ParseProficiency(s)
	return nil
}

func (p Proficiency) MarshalYAML() (any, error) {
	return p.String(), nil
}

func (p *Proficiency) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*p = ParseProficiency(s)
	return nil
}

func (e EndorserType) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *EndorserType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*e = ParseEndorserType(s)
	return nil
}

func (e EndorserType) MarshalYAML() (any, error) {
	return e.String(), nil
}

func (e *EndorserType) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*e = ParseEndorserType(s)
	return nil
}
