package parser

import (
	"errors"

	"l10n-scanner/internal/textutil"
)

var (
	// ErrUnsupportedExtension is returned for files no language handles.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrUnknownLanguage is returned for language ids no language answers to.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrFileNotFound is returned when the file to parse does not exist.
	ErrFileNotFound = errors.New("file not found")
)

// Text is a translatable string found in a translation function call.
type Text struct {
	// Text is the literal argument with all fragments joined. May be empty.
	Text string `json:"text"`
	// Line is the 1-based line of the translation function name.
	Line int `json:"line"`
	// Explanation is the sanitized second argument of explanation functions.
	Explanation string `json:"explanation"`
}

// Hash returns the content hash identifying the text.
func (t Text) Hash() string {
	return textutil.Hash(t.Text)
}

// Warning records a translation call the walker could not resolve statically.
type Warning struct {
	LanguageID string `json:"languageID"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Message    string `json:"message"`
}

// ParseResult holds parsing output for a single file or code snippet.
type ParseResult struct {
	// FilePath is empty when parsing code from memory.
	FilePath   string
	LanguageID string
	// Texts keeps every call in source order, duplicates included.
	Texts    []Text
	Warnings []Warning
}

// Parser extracts translatable texts from files and code strings.
type Parser interface {
	ParseFile(path string) (*ParseResult, error)
	ParseString(code string) (*ParseResult, error)
}
