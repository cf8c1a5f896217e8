package services

// View is a top-level UI surface.
type View int

const (
	ViewAuth View = iota
	ViewFeed
)

func (v View) String() string {
	switch v {
	case ViewAuth:
		return "auth"
	case ViewFeed:
		return "feed"
	default:
		return "unknown"
	}
}

// Navigator switches the active surface.
type Navigator interface {
	Navigate(v View)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(View)

func (f NavigatorFunc) Navigate(v View) { f(v) }
