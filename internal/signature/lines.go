package signature

// Kind is the classification a signature line has been claimed as
type Kind int

const (
	KindUnknown Kind = iota
	KindName
	KindAddress
	KindPhone
	KindLink
	KindMailto
	KindCompanyOrTitle
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindAddress:
		return "address"
	case KindPhone:
		return "phone"
	case KindLink:
		return "link"
	case KindMailto:
		return "mailto"
	case KindCompanyOrTitle:
		return "company_or_title"
	default:
		return "unknown"
	}
}

// Line is one trimmed line of a message body
type Line struct {
	Text        string
	IsSignature bool
	Kind        Kind
}

// claim classifies l as kind unless an earlier extractor already claimed it
func (l *Line) claim(kind Kind) bool {
	if l.Kind != KindUnknown {
		return false
	}
	l.Kind = kind
	return true
}

// texts returns the text of every line
func texts(lines []*Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
