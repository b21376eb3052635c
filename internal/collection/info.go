package collection

import (
	"path"

	"l10n-scanner/internal/parser"
)

// SourceTypeFile marks strings found in files of a folder source.
const SourceTypeFile = "file"

// Property keys set on every StringInfo added from a file.
const (
	PropLanguageType = "languageType"
	PropRelativePath = "relativePath"
)

// StringInfo is one occurrence of a text.
type StringInfo struct {
	SourceType string            `json:"sourceType"`
	SourceID   string            `json:"sourceID"`
	Text       parser.Text       `json:"text"`
	Properties map[string]string `json:"properties"`
}

// Hash returns the content hash of the occurrence's text.
func (i StringInfo) Hash() string { return i.Text.Hash() }

func (i StringInfo) LanguageType() string { return i.Properties[PropLanguageType] }

func (i StringInfo) RelativePath() string { return i.Properties[PropRelativePath] }

// FileName returns the base name of the file the text was found in.
func (i StringInfo) FileName() string {
	if p := i.RelativePath(); p != "" {
		return path.Base(p)
	}
	return ""
}

func (i StringInfo) clone() StringInfo {
	props := make(map[string]string, len(i.Properties))
	for k, v := range i.Properties {
		props[k] = v
	}
	i.Properties = props
	return i
}
