package core_dto

import (
	"github.com/goccy/go-json"
)

type Doctor struct {
	ID             string      `json:"_id,omitempty"`
	Name           string      `json:"name,omitempty"`
	Specialization string      `json:"specialization,omitempty"`
	Hospital       HospitalRef `json:"hospital"`
}

// HospitalRef accepts both payload shapes the hospital core API emits for a
// doctor's hospital: a bare id string or an embedded hospital object.
type HospitalRef struct {
	ID       string
	Embedded *Hospital
}

func (r *HospitalRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}

	var embedded Hospital
	if err := json.Unmarshal(data, &embedded); err != nil {
		return err
	}
	r.ID = embedded.ID
	r.Embedded = &embedded
	return nil
}

func (r HospitalRef) MarshalJSON() ([]byte, error) {
	if r.Embedded != nil {
		return json.Marshal(r.Embedded)
	}
	return json.Marshal(r.ID)
}
