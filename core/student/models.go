package student

import "github.com/eduplaybd/eduplay/core"

// Profile is the student's public profile. Its ID is the auth identity; the
// grade is referenced by display name, not id.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age,omitempty"`
	Grade     string `json:"grade,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Address   string `json:"address,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// UpdateProfile defines what a student may change about their own profile.
type UpdateProfile struct {
	Name    string `json:"name" validate:"required"`
	Age     int    `json:"age" validate:"omitempty,min=2,max=15"`
	Grade   string `json:"grade"`
	Address string `json:"address"`
	Gender  string `json:"gender" validate:"omitempty,oneof=male female other"`
	Bio     string `json:"bio"`
}

func (up *UpdateProfile) Validate() error {
	up.Name = core.CleanString(up.Name)
	up.Grade = core.CleanString(up.Grade)
	up.Address = core.CleanString(up.Address)
	up.Gender = core.CleanString(up.Gender, true /* lower */)
	up.Bio = core.CleanString(up.Bio)
	return core.Validate.Struct(up)
}
