// Package dmzj lists chapters and pages of a manhua.dmzj.com series. The
// series page groups chapter links in lists; each chapter page carries a
// page-selector control whose options point at the page images.
package dmzj
