package prompt

// placeholderScanner walks a template and yields each {{NAME}} placeholder.
type placeholderScanner struct {
	src          string
	position     int
	readPosition int
	ch           byte
}

func newPlaceholderScanner(src string) *placeholderScanner {
	scanner := &placeholderScanner{src: src}
	scanner.readChar()
	return scanner
}

func (scanner *placeholderScanner) readChar() {
	if scanner.readPosition >= len(scanner.src) {
		scanner.ch = 0
	} else {
		scanner.ch = scanner.src[scanner.readPosition]
	}
	scanner.position = scanner.readPosition
	scanner.readPosition++
}

func (scanner *placeholderScanner) peekChar() byte {
	if scanner.readPosition >= len(scanner.src) {
		return 0
	}
	return scanner.src[scanner.readPosition]
}

// Next returns the next placeholder including its braces, or false at end of
// input. Unterminated braces are skipped rather than reported; the template
// treats them as literal text.
func (scanner *placeholderScanner) Next() (string, bool) {
	for scanner.ch != 0 {
		if scanner.ch == '{' && scanner.peekChar() == '{' {
			start := scanner.position
			scanner.readChar()
			scanner.readChar()

			for scanner.ch != 0 {
				if scanner.ch == '}' && scanner.peekChar() == '}' {
					scanner.readChar()
					scanner.readChar()
					return scanner.src[start:scanner.position], true
				}
				scanner.readChar()
			}
			return "", false
		}
		scanner.readChar()
	}
	return "", false
}

// placeholders lists every {{NAME}} occurrence in order of appearance.
func placeholders(src string) []string {
	scanner := newPlaceholderScanner(src)

	var found []string
	for {
		ph, ok := scanner.Next()
		if !ok {
			return found
		}
		found = append(found, ph)
	}
}
