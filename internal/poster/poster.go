// Package poster publishes finished announcements to a social platform.
package poster

// PostError reports that the platform rejected or never received a post.
// The dispatch loop logs it and moves on to the next article.
type PostError struct {
	Reason string
}

func (e *PostError) Error() string {
	return "post failed: " + e.Reason
}
