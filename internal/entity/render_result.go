package entity

// RenderResult is the verdict of the render oracle for one document.
type RenderResult struct {
	OK         bool
	Reason     string
	TextLength int
	Errors     []string
}
