package entity

// TextLine is a single line of extracted text with its position in the
// source document. Immutable once produced by the text extractor.
type TextLine struct {
	Page    int    `json:"page"`    // 1-based page number
	Ordinal int    `json:"ordinal"` // 1-based position within the page
	Text    string `json:"text"`
}
