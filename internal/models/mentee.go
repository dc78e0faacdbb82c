package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// Mentee is a mentee account row
type Mentee struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Name            string     `json:"name"`
	Specialization  string     `json:"specialization"`
	Bio             string     `json:"bio"`
	LinkedinURL     string     `json:"linkedinUrl"`
	MobileNo        string     `json:"mobileNo"`
	PhotoURL        string     `json:"photoUrl"`
	CareerInterests []string   `json:"careerInterests"`
	MentorshipAreas []string   `json:"mentorshipAreas"`
	IsVerified      bool       `json:"isVerified"`
	VerifyOTP       string     `json:"-"`
	VerifyOTPExpiry *time.Time `json:"-"`
	ResetOTP        string     `json:"-"`
	ResetOTPExpiry  *time.Time `json:"-"`
	Connections     []int64    `json:"connections"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MenteeColumns is the canonical column list matching ScanMentee
const MenteeColumns = `id, email, password_hash, name,
	COALESCE(specialization, ''), COALESCE(bio, ''), COALESCE(linkedin_url, ''),
	COALESCE(mobile_no, ''), COALESCE(photo_url, ''),
	career_interests, mentorship_areas,
	is_verified, verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,
	connections, created_at, updated_at`

// ScanMentee scans a single PostgreSQL row into a Mentee struct.
// Column order must match MenteeColumns.
func ScanMentee(row pgx.Row) (*Mentee, error) {
	var m Mentee

	err := row.Scan(
		&m.ID,
		&m.Email,
		&m.PasswordHash,
		&m.Name,
		&m.Specialization,
		&m.Bio,
		&m.LinkedinURL,
		&m.MobileNo,
		&m.PhotoURL,
		&m.CareerInterests,
		&m.MentorshipAreas,
		&m.IsVerified,
		&m.VerifyOTP,
		&m.VerifyOTPExpiry,
		&m.ResetOTP,
		&m.ResetOTPExpiry,
		&m.Connections,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// RegisterMenteeRequest is the payload for mentee signup
type RegisterMenteeRequest struct {
	Name            string   `json:"name" binding:"required,min=2,max=100"`
	Email           string   `json:"email" binding:"required,email,max=255"`
	Password        string   `json:"password" binding:"required,min=8,max=128"`
	MobileNo        string   `json:"mobileNo" binding:"omitempty,len=10,numeric"`
	Specialization  string   `json:"specialization" binding:"max=100"`
	Bio             string   `json:"bio" binding:"max=2000"`
	LinkedinURL     string   `json:"linkedinUrl" binding:"omitempty,url,max=255"`
	CareerInterests []string `json:"careerInterests" binding:"max=2,dive,min=1,max=50"`
	MentorshipAreas []string `json:"mentorshipAreas" binding:"max=2,dive,min=1,max=50"`
}

// MenteeProfile is the mentee's own profile view
type MenteeProfile struct {
	ID              int64    `json:"id"`
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization"`
	Bio             string   `json:"bio"`
	LinkedinURL     string   `json:"linkedinUrl"`
	MobileNo        string   `json:"mobileNo"`
	PhotoURL        string   `json:"photoUrl"`
	CareerInterests []string `json:"careerInterests"`
	MentorshipAreas []string `json:"mentorshipAreas"`
	IsVerified      bool     `json:"isVerified"`
	Connections     []int64  `json:"connections"`
}

// ToProfile converts a mentee row into its profile view
func (m *Mentee) ToProfile() *MenteeProfile {
	return &MenteeProfile{
		ID:              m.ID,
		Email:           m.Email,
		Name:            m.Name,
		Specialization:  m.Specialization,
		Bio:             m.Bio,
		LinkedinURL:     m.LinkedinURL,
		MobileNo:        m.MobileNo,
		PhotoURL:        m.PhotoURL,
		CareerInterests: m.CareerInterests,
		MentorshipAreas: m.MentorshipAreas,
		IsVerified:      m.IsVerified,
		Connections:     m.Connections,
	}
}
