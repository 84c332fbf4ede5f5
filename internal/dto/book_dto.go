package dto

type AddBookInput struct {
	Title  string `json:"title" binding:"required,max=200"`
	Author string `json:"author" binding:"required,max=100"`
	Copies int    `json:"copies" binding:"omitempty,min=1"`
}
