package dto

type CreateMemberInput struct {
	Code string `json:"code" binding:"required"`
	Pin  string `json:"pin" binding:"required"`
	Name string `json:"name"`
}

// UpdateMemberInput is a partial update; absent fields stay unchanged.
// Password is accepted as an alias of Pin for older admin clients.
type UpdateMemberInput struct {
	Name     *string `json:"name"`
	Comment  *string `json:"comment"`
	Pin      *string `json:"pin"`
	Password *string `json:"password"`
}

func (in UpdateMemberInput) Secret() *string {
	if in.Pin != nil {
		return in.Pin
	}
	return in.Password
}

type SetStatusInput struct {
	Active *bool `json:"active" binding:"required"`
}

type StatusResponse struct {
	ID     uint `json:"id"`
	Active bool `json:"active"`
}
