package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// getLine returns the next line without its line ending. A final line with no
// trailing newline is still returned.
func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("early end of file")
		}
		return
	}
	line = strings.TrimRight(line, "\r\n")
	return
}

func skipLines(n int, reader *bufio.Reader) (err error) {
	for i := 0; i < n; i++ {
		if _, err = getLine(reader); err != nil {
			return
		}
	}
	return
}
