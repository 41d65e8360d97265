// Package page renders the HTML documents served to the browser.
//
// A page is assembled from three parts: a title (escaped on the way in),
// a trusted body fragment and a trusted script. The stylesheet is a static
// asset shared by every page.
//
// # Pages
//
//   - login (default, no query parameter) - sign in and session boot
//   - register (?page=register) - create an account
//   - work (?page=work) - the signed-in user's shift
package page
