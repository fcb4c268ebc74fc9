package models

import "shareit/internal/apperr"

// Page carries the raw from/size pagination parameters. The window fed to the
// store is derived as page = from / size (integer division), matching the
// behavior callers of this API already rely on, rather than treating from as
// an absolute offset.
type Page struct {
	From int
	Size int
}

func (p Page) Validate() error {
	if p.Size <= 0 || p.From < 0 || p.Size < p.From {
		return apperr.BadRequest("invalid pagination bounds")
	}
	return nil
}

// Window returns the LIMIT/OFFSET pair for the store.
func (p Page) Window() (limit, offset int) {
	page := p.From / p.Size
	return p.Size, page * p.Size
}
