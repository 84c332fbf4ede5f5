package dto

import "college-library/internal/model"

type RegisterInput struct {
	PRNNumber  string `json:"prn_number" binding:"required,max=20"`
	Username   string `json:"username" binding:"required,min=3,max=80"`
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	MotherName string `json:"mother_name" binding:"required,max=100"`
	DOB        string `json:"dob" binding:"required,len=8"` // DDMMYYYY
	Phone      string `json:"phone" binding:"omitempty,max=15"`
	Address    string `json:"address"`
	Year       string `json:"year" binding:"omitempty,max=10"`
	Course     string `json:"course" binding:"omitempty,max=50"`
	Role       string `json:"role" binding:"required,oneof=student admin"`
	Password   string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	PRNNumber string `json:"prn_number" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

type UpdateProfileInput struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
}
