package request

import validation "github.com/go-ozzo/ozzo-validation"

type WarningRequest struct {
	Reason string `json:"reason"`
}

func (req *WarningRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(3, 500)),
	)
}
