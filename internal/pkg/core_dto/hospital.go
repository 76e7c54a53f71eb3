package core_dto

type Hospital struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}
