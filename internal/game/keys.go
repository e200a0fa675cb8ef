package game

// HeadingForKey maps a browser KeyboardEvent.key to a heading.
// Anything other than the four arrow keys reports ok=false and is ignored.
func HeadingForKey(key string) (h Heading, ok bool) {
	switch key {
	case "ArrowUp":
		return North, true
	case "ArrowDown":
		return South, true
	case "ArrowLeft":
		return West, true
	case "ArrowRight":
		return East, true
	}
	return 0, false
}
