package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // never sent to clients
	Role         string    `json:"role"`
	BusNumber    string    `json:"bus_number,omitempty"` // set for conductors
	RouteID      string    `json:"route_id,omitempty"`   // route the conductor's bus serves
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PublicUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	BusNumber string `json:"bus_number,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		BusNumber: u.BusNumber,
		AvatarURL: u.AvatarURL,
	}
}

// OTP is a one-time registration code delivered by email.
type OTP struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}
