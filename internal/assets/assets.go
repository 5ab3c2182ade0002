package assets

// DefaultStyleName is the stylesheet used for html and pdf drafts.
const DefaultStyleName = "draft"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidStyleName for anything but letters, digits, - and _.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// StyleNames lists the embedded styles.
func StyleNames() []string {
	return defaultLoader.StyleNames()
}
