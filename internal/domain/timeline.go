package domain

type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepUpcoming  StepState = "upcoming"
)

type TimelineStep struct {
	Status      RentalStatus `json:"status"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	State       StepState    `json:"state"`
}

type Timeline struct {
	Cancelled bool           `json:"cancelled"`
	Steps     []TimelineStep `json:"steps"`
}

var timelineSteps = []TimelineStep{
	{Status: RentalPendingPayment, Label: "Payment Pending", Description: "Upload your UPI payment"},
	{Status: RentalPendingApproval, Label: "Awaiting Approval", Description: "Admin is reviewing your payment"},
	{Status: RentalConfirmed, Label: "Confirmed", Description: "Ready for pickup!"},
	{Status: RentalActive, Label: "Active", Description: "Game is with you"},
	{Status: RentalReturnRequested, Label: "Return Requested", Description: "Waiting for inspection"},
	{Status: RentalCompleted, Label: "Completed", Description: "Thanks for playing!"},
}

// RentalTimeline lays out the progress of a rental. Unless showAll is set the
// steps stop one past the current one.
func RentalTimeline(current RentalStatus, showAll bool) Timeline {
	if current == RentalCancelled {
		return Timeline{Cancelled: true, Steps: []TimelineStep{}}
	}

	currentIndex := current.Index()
	n := len(timelineSteps)
	if !showAll {
		n = min(currentIndex+2, len(timelineSteps))
	}
	if n < 0 {
		n = 0
	}

	steps := make([]TimelineStep, 0, n)
	for i, step := range timelineSteps[:n] {
		switch {
		case i < currentIndex:
			step.State = StepCompleted
		case i == currentIndex:
			step.State = StepCurrent
		default:
			step.State = StepUpcoming
		}
		steps = append(steps, step)
	}

	return Timeline{Steps: steps}
}
