package request

// UserRequest is the full representation accepted by POST and PUT.
type UserRequest struct {
	Username  string `json:"username" validate:"required,max=150,username,notme"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// AsPatch turns a full replacement into a patch touching every field. An
// omitted role keeps the stored one.
func (r UserRequest) AsPatch() UserPatchRequest {
	p := UserPatchRequest{
		Username:  &r.Username,
		Email:     &r.Email,
		FirstName: &r.FirstName,
		LastName:  &r.LastName,
		Bio:       &r.Bio,
	}
	if r.Role != "" {
		p.Role = &r.Role
	}
	return p
}

type UserPatchRequest struct {
	Username  *string `json:"username" validate:"omitnil,min=1,max=150,username,notme"`
	Email     *string `json:"email" validate:"omitnil,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitnil,max=150"`
	LastName  *string `json:"last_name" validate:"omitnil,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitnil,oneof=user moderator admin"`
}
