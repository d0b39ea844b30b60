package response

import "github.com/boardy-hostel/boardy-api/internal/domain"

type RentalDetailResponse struct {
	Rental   domain.Rental   `json:"rental"`
	Game     domain.Game     `json:"game"`
	Timeline domain.Timeline `json:"timeline"`
}

type RentalGroupsResponse struct {
	Pending []domain.Rental `json:"pending"`
	Active  []domain.Rental `json:"active"`
	History []domain.Rental `json:"history"`
}

func NewRentalGroupsResponse(rentals []domain.Rental) RentalGroupsResponse {
	groups := domain.GroupRentals(rentals)
	return RentalGroupsResponse{
		Pending: groups[domain.RentalGroupPending],
		Active:  groups[domain.RentalGroupActive],
		History: groups[domain.RentalGroupHistory],
	}
}
