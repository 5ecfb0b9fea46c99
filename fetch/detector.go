package fetch

import "github.com/kbukum/apiwatch/util"

// ChangeDetector compares each successful response with the last accepted one.
type ChangeDetector struct {
	last any
	seen bool
}

// Apply decides how a response body affects state. Without tracking every
// body is adopted and the detector forgets what it saw, so the first body
// after tracking resumes is a change. With tracking the first body always
// counts as a change; later ones only when not deep-equal to the last
// accepted body, which is then replaced.
func (d *ChangeDetector) Apply(body any, tracking bool) (adopt, changed bool) {
	if !tracking {
		d.last, d.seen = nil, false
		return true, false
	}
	if d.seen && util.DeepEqual(body, d.last) {
		return false, false
	}
	d.last, d.seen = body, true
	return true, true
}
