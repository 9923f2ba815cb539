package domain

// Referral points from one index document to another.
type Referral struct {
	// URL is the referred document location, possibly relative to the referring document.
	URL string
	// MaxDepth is the traversal depth declared by the referral; zero or less means "inherit".
	MaxDepth int
	// CurrentDepth is the depth of the referring document, root documents being zero.
	CurrentDepth int
}
