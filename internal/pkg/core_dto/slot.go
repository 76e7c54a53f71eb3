package core_dto

type SlotResponseKind int

const (
	// SlotResponseUnknown means the payload matched no recognized shape.
	SlotResponseUnknown SlotResponseKind = iota
	// SlotResponseAvailable carries the bookable slots verbatim.
	SlotResponseAvailable
	// SlotResponseBooked carries taken slots; available = fixed set minus these.
	SlotResponseBooked
)

// SlotResponse is the tagged decoding of the upstream availability payload.
type SlotResponse struct {
	Kind  SlotResponseKind
	Slots []string
}
