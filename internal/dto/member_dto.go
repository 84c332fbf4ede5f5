package dto

type AddStudentInput struct {
	PRNNumber  string `json:"prn_number" binding:"required,max=20"`
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	MotherName string `json:"mother_name" binding:"required,max=100"`
	DOB        string `json:"dob" binding:"required,len=8"` // DDMMYYYY
	Phone      string `json:"phone" binding:"omitempty,max=15"`
	Address    string `json:"address"`
	Year       string `json:"year" binding:"omitempty,max=10"`
	Course     string `json:"course" binding:"omitempty,max=50"`
}

type UpdateStudentInput struct {
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	MotherName string `json:"mother_name" binding:"required,max=100"`
	DOB        string `json:"dob" binding:"required,len=8"`
	Phone      string `json:"phone" binding:"omitempty,max=15"`
	Address    string `json:"address"`
	Year       string `json:"year" binding:"omitempty,max=10"`
	Course     string `json:"course" binding:"omitempty,max=50"`
}

type AddAdminInput struct {
	PRNNumber  string `json:"prn_number" binding:"required,max=20"`
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	MotherName string `json:"mother_name" binding:"required,max=100"`
	DOB        string `json:"dob" binding:"required,len=8"`
	Phone      string `json:"phone" binding:"omitempty,max=15"`
	Address    string `json:"address"`
}

type RecordSessionInput struct {
	StudentID string  `json:"student_id" binding:"required,uuid"`
	Date      string  `json:"date" binding:"required"` // YYYY-MM-DD
	Hours     float64 `json:"hours" binding:"required,gt=0"`
}

// MemberResponse reports a provisioned account together with the derived
// initial password, so the admin can hand it over.
type MemberResponse struct {
	User     interface{} `json:"user"`
	Password string      `json:"password"`
}
