package session

import "github.com/thruflo/rota/internal/page"

// Navigator moves the user to another page, ending the current Bridge.
type Navigator interface {
	Navigate(id page.ID) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(id page.ID) error

func (f NavigatorFunc) Navigate(id page.ID) error { return f(id) }

// URLNavigator navigates by opening page.Location(Path, id).
type URLNavigator struct {
	Path string
	Open func(location string) error
}

func (n URLNavigator) Navigate(id page.ID) error {
	return n.Open(page.Location(n.Path, id))
}
