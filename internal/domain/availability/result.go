package availability

type UnavailableReason string

const (
	ReasonOccupied            UnavailableReason = "OCCUPIED"
	ReasonInterval            UnavailableReason = "INTERVAL"
	ReasonInsufficientTime    UnavailableReason = "INSUFFICIENT_TIME"
	ReasonOutsideHours        UnavailableReason = "OUTSIDE_HOURS"
	ReasonResourceUnavailable UnavailableReason = "RESOURCE_UNAVAILABLE"
)

// Result é consumido direto pela UI: sempre que Available for false,
// Reason e Message vêm preenchidos.
type Result struct {
	Available     bool              `json:"available"`
	Reason        UnavailableReason `json:"reason,omitempty"`
	Message       string            `json:"message,omitempty"`
	OccupiedUntil string            `json:"occupied_until,omitempty"`
}

func Available() Result {
	return Result{Available: true}
}

func Unavailable(reason UnavailableReason, message string) Result {
	return Result{Available: false, Reason: reason, Message: message}
}

func Occupied(until string) Result {
	return Result{
		Available:     false,
		Reason:        ReasonOccupied,
		Message:       "Occupied until " + until,
		OccupiedUntil: until,
	}
}

func ResourceUnavailable() Result {
	return Unavailable(ReasonResourceUnavailable, "Barber unavailable")
}
