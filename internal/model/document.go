package model

import "time"

// Document is an uploaded PDF and the plain text extracted from it.
// Records are written once at upload time and never modified afterwards.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
	Content    string    `json:"content,omitempty"`
}

// Answer is the span an extractive question-answering model picked from a document.
type Answer struct {
	Text  string  `json:"answer"`
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}
