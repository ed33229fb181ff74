package project

// Selector picks which catalog query serves a request.
type Selector int

const (
	SelectorFeatured Selector = iota
	SelectorAll
	SelectorDetail
)

// ParseSelector maps the action query parameter to a Selector. Missing and
// unrecognized actions select the featured list.
func ParseSelector(action string) Selector {
	switch action {
	case "all":
		return SelectorAll
	case "detail":
		return SelectorDetail
	default:
		return SelectorFeatured
	}
}

func (s Selector) String() string {
	switch s {
	case SelectorAll:
		return "all"
	case SelectorDetail:
		return "detail"
	default:
		return "featured"
	}
}
