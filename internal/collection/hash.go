package collection

// StringHash groups every occurrence of one text.
type StringHash struct {
	hash  string
	infos []StringInfo
}

func newStringHash(hash string) *StringHash {
	return &StringHash{hash: hash}
}

func (h *StringHash) Hash() string { return h.hash }

// Text returns the text shared by all occurrences.
func (h *StringHash) Text() string {
	if len(h.infos) == 0 {
		return ""
	}
	return h.infos[0].Text.Text
}

// Infos returns a copy of the occurrences in insertion order.
func (h *StringHash) Infos() []StringInfo {
	out := make([]StringInfo, len(h.infos))
	for i, info := range h.infos {
		out[i] = info.clone()
	}
	return out
}

// CountStrings returns the number of occurrences.
func (h *StringHash) CountStrings() int { return len(h.infos) }

// CountFiles returns the number of distinct files the text occurs in.
func (h *StringHash) CountFiles() int { return len(h.Files()) }

// Files lists the distinct relative paths in order of first occurrence.
// Paths from different sources are kept apart.
func (h *StringHash) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, info := range h.infos {
		p := info.RelativePath()
		if p == "" {
			continue
		}
		key := info.SourceID + "\x00" + p
		if seen[key] {
			continue
		}
		seen[key] = true
		files = append(files, p)
	}
	return files
}

// FileNames lists the distinct base names of the files.
func (h *StringHash) FileNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, info := range h.infos {
		name := info.FileName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func (h *StringHash) HasLanguageType(languageType string) bool {
	for _, info := range h.infos {
		if info.LanguageType() == languageType {
			return true
		}
	}
	return false
}

func (h *StringHash) HasSourceID(sourceID string) bool {
	for _, info := range h.infos {
		if info.SourceID == sourceID {
			return true
		}
	}
	return false
}

// LanguageTypes lists the distinct language types of the occurrences.
func (h *StringHash) LanguageTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, info := range h.infos {
		lt := info.LanguageType()
		if lt == "" || seen[lt] {
			continue
		}
		seen[lt] = true
		types = append(types, lt)
	}
	return types
}

// Explanations lists the distinct non-empty explanations.
func (h *StringHash) Explanations() []string {
	seen := make(map[string]bool)
	var out []string
	for _, info := range h.infos {
		e := info.Text.Explanation
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func (h *StringHash) add(info StringInfo) {
	h.infos = append(h.infos, info)
}
