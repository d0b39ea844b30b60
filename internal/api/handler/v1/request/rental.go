package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

const DateLayout = "2006-01-02"

var (
	errEndBeforeStart  = errors.New("end_date must not be before start_date")
	errFineNeedsReason = errors.New("fine_reason is required when fine_amount is set")
)

type CreateRentalRequest struct {
	GameID    uint   `json:"game_id"`
	StartDate string `json:"start_date" format:"YYYY-MM-DD"`
	EndDate   string `json:"end_date" format:"YYYY-MM-DD"`
}

func (req *CreateRentalRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.GameID, validation.Required),
		validation.Field(&req.StartDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(DateLayout)),
	)
	if err != nil {
		return err
	}

	start, end := req.Dates()
	if end.Before(start) {
		return errEndBeforeStart
	}

	return nil
}

// Dates must only be called after Validate succeeded.
func (req *CreateRentalRequest) Dates() (time.Time, time.Time) {
	start, _ := time.Parse(DateLayout, req.StartDate)
	end, _ := time.Parse(DateLayout, req.EndDate)
	return start, end
}

type PaymentRequest struct {
	PaymentReference string `json:"payment_reference"`
}

func (req *PaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PaymentReference, validation.Required, validation.Length(4, 64), is.PrintableASCII),
	)
}

type CompleteReturnRequest struct {
	FineAmount int    `json:"fine_amount"`
	FineReason string `json:"fine_reason"`
	Condition  string `json:"condition"`
}

func (req *CompleteReturnRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.FineAmount, validation.Min(0)),
		validation.Field(&req.FineReason, validation.Length(0, 200)),
		validation.Field(&req.Condition, validation.In(
			string(domain.GameAvailable), string(domain.GamePartiallyPlayable), string(domain.GameUnavailable),
		)),
	)
	if err != nil {
		return err
	}

	if req.FineAmount > 0 && req.FineReason == "" {
		return errFineNeedsReason
	}

	return nil
}

func (req *CompleteReturnRequest) Fine() domain.Fine {
	return domain.Fine{Amount: req.FineAmount, Reason: req.FineReason}
}
