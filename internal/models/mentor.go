package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// Mentor is a mentor account row
type Mentor struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Specialization    string     `json:"specialization"`
	InternshipCompany string     `json:"internshipCompany"`
	ExperienceYears   int        `json:"experienceYears"`
	Bio               string     `json:"bio"`
	LinkedinURL       string     `json:"linkedinUrl"`
	MobileNo          string     `json:"mobileNo"`
	PhotoURL          string     `json:"photoUrl"`
	Skills            []string   `json:"skills"`
	CareerAreas       []string   `json:"careerAreas"`
	IsVerified        bool       `json:"isVerified"`
	VerifyOTP         string     `json:"-"`
	VerifyOTPExpiry   *time.Time `json:"-"`
	ResetOTP          string     `json:"-"`
	ResetOTPExpiry    *time.Time `json:"-"`
	Connections       []int64    `json:"connections"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// MentorColumns is the canonical column list matching ScanMentor
const MentorColumns = `id, email, password_hash, name, slug,
	COALESCE(specialization, ''), COALESCE(internship_company, ''), COALESCE(experience_years, 0),
	COALESCE(bio, ''), COALESCE(linkedin_url, ''), COALESCE(mobile_no, ''), COALESCE(photo_url, ''),
	skills, career_areas,
	is_verified, verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,
	connections, created_at, updated_at`

// ScanMentor scans a single PostgreSQL row into a Mentor struct.
// Column order must match MentorColumns.
func ScanMentor(row pgx.Row) (*Mentor, error) {
	var m Mentor

	err := row.Scan(
		&m.ID,
		&m.Email,
		&m.PasswordHash,
		&m.Name,
		&m.Slug,
		&m.Specialization,
		&m.InternshipCompany,
		&m.ExperienceYears,
		&m.Bio,
		&m.LinkedinURL,
		&m.MobileNo,
		&m.PhotoURL,
		&m.Skills,
		&m.CareerAreas,
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

// ScanMentors scans multiple rows into a slice of Mentor structs
func ScanMentors(rows pgx.Rows) ([]*Mentor, error) {
	defer rows.Close()

	mentors := []*Mentor{}
	for rows.Next() {
		mentor, err := ScanMentor(rows)
		if err != nil {
			return nil, err
		}
		mentors = append(mentors, mentor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return mentors, nil
}

// RegisterMentorRequest is the payload for mentor signup
type RegisterMentorRequest struct {
	Name              string   `json:"name" binding:"required,min=2,max=100"`
	Email             string   `json:"email" binding:"required,email,max=255"`
	Password          string   `json:"password" binding:"required,min=8,max=128"`
	MobileNo          string   `json:"mobileNo" binding:"omitempty,len=10,numeric"`
	Specialization    string   `json:"specialization" binding:"max=100"`
	InternshipCompany string   `json:"internshipCompany" binding:"max=100"`
	ExperienceYears   int      `json:"experienceYears" binding:"min=0,max=60"`
	Bio               string   `json:"bio" binding:"max=2000"`
	LinkedinURL       string   `json:"linkedinUrl" binding:"omitempty,url,max=255"`
	Skills            []string `json:"skills" binding:"max=4,dive,min=1,max=50"`
	CareerAreas       []string `json:"careerAreas" binding:"max=4,dive,min=1,max=50"`
}

// MentorCard is the public browse view of a mentor
type MentorCard struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Slug              string   `json:"slug"`
	Specialization    string   `json:"specialization"`
	InternshipCompany string   `json:"internshipCompany"`
	ExperienceYears   int      `json:"experienceYears"`
	Bio               string   `json:"bio"`
	LinkedinURL       string   `json:"linkedinUrl"`
	PhotoURL          string   `json:"photoUrl"`
	Skills            []string `json:"skills"`
	CareerAreas       []string `json:"careerAreas"`
}

// ToCard converts a mentor row into its public browse view
func (m *Mentor) ToCard() *MentorCard {
	return &MentorCard{
		ID:                m.ID,
		Name:              m.Name,
		Slug:              m.Slug,
		Specialization:    m.Specialization,
		InternshipCompany: m.InternshipCompany,
		ExperienceYears:   m.ExperienceYears,
		Bio:               m.Bio,
		LinkedinURL:       m.LinkedinURL,
		PhotoURL:          m.PhotoURL,
		Skills:            m.Skills,
		CareerAreas:       m.CareerAreas,
	}
}

// MentorsResponse is the response for the browse list
type MentorsResponse struct {
	Mentors []*MentorCard `json:"mentors"`
	Total   int           `json:"total"`
}

// MentorProfile is the mentor's own profile view
type MentorProfile struct {
	ID                int64    `json:"id"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	Slug              string   `json:"slug"`
	Specialization    string   `json:"specialization"`
	InternshipCompany string   `json:"internshipCompany"`
	ExperienceYears   int      `json:"experienceYears"`
	Bio               string   `json:"bio"`
	LinkedinURL       string   `json:"linkedinUrl"`
	MobileNo          string   `json:"mobileNo"`
	PhotoURL          string   `json:"photoUrl"`
	Skills            []string `json:"skills"`
	CareerAreas       []string `json:"careerAreas"`
	IsVerified        bool     `json:"isVerified"`
	Connections       []int64  `json:"connections"`
}

// ToProfile converts a mentor row into its profile view
func (m *Mentor) ToProfile() *MentorProfile {
	return &MentorProfile{
		ID:                m.ID,
		Email:             m.Email,
		Name:              m.Name,
		Slug:              m.Slug,
		Specialization:    m.Specialization,
		InternshipCompany: m.InternshipCompany,
		ExperienceYears:   m.ExperienceYears,
		Bio:               m.Bio,
		LinkedinURL:       m.LinkedinURL,
		MobileNo:          m.MobileNo,
		PhotoURL:          m.PhotoURL,
		Skills:            m.Skills,
		CareerAreas:       m.CareerAreas,
		IsVerified:        m.IsVerified,
		Connections:       m.Connections,
	}
}
