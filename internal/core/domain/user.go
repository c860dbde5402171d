package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role belongs to the closed role enumeration.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// MartialArtInfo describes one discipline practiced by a user.
type MartialArtInfo struct {
	MartialArt    string `json:"martial_art" bson:"martial_art"`
	Level         string `json:"level" bson:"level"`
	BeltLevel     string `json:"belt_level,omitempty" bson:"belt_level,omitempty"`
	YearsPractice int    `json:"years_practice,omitempty" bson:"years_practice,omitempty"`
}

// SocialLinks groups the optional external profiles a user may publish.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	TikTok    string `json:"tiktok,omitempty" bson:"tiktok,omitempty"`
	Website   string `json:"website,omitempty" bson:"website,omitempty"`
}

// User models an account in the social network.
type User struct {
	ID                    string           `json:"id"`
	Email                 string           `json:"email"`
	Username              string           `json:"username"`
	PasswordHash          string           `json:"-"`
	FirstName             string           `json:"first_name"`
	LastName              string           `json:"last_name"`
	BirthDate             time.Time        `json:"birth_date"`
	Bio                   string           `json:"bio"`
	ProfileImage          string           `json:"profile_image,omitempty"`
	ProfileImagePublicID  string           `json:"-"`
	Role                  string           `json:"role"`
	PrincipalMartialArt   string           `json:"principal_martial_art,omitempty"`
	PrincipalMartialLevel string           `json:"principal_martial_level,omitempty"`
	PrincipalBeltLevel    string           `json:"principal_belt_level,omitempty"`
	FighterLevel          string           `json:"fighter_level,omitempty"`
	MartialArts           []MartialArtInfo `json:"martial_arts"`
	SocialLinks           SocialLinks      `json:"social_links"`
	FollowersCount        int64            `json:"followers_count"`
	FollowingCount        int64            `json:"following_count"`
	PostsCount            int64            `json:"posts_count"`
	IsActive              bool             `json:"is_active"`
	IsVerified            bool             `json:"is_verified"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// FullName joins first and last name for presentation.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Age returns the user's age in whole years as of now.
func (u *User) Age() int {
	return AgeAt(u.BirthDate, time.Now().UTC())
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AgeAt computes whole years elapsed between birth and ref, accounting for
// whether the birthday has occurred yet in ref's year.
func AgeAt(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() ||
		(ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}
