/*
 * PicoBlaze - Configuration file parser
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package configparser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <option> *(<whitespace> <argument>)
 * <option> ::= <string>
 * <argument> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 *
 * Options are dispatched to handlers registered by the packages that
 * consume them. Option names are case insensitive.
 */

// Handler receives the arguments of one configuration line.
type Handler func(args []string) error

// FileHandler receives the single path argument of a file option.
type FileHandler func(path string) error

var options = map[string]Handler{}

var lineNumber int

// Register should be called from init functions or before LoadConfigFile.
func RegisterOption(name string, fn Handler) {
	options[strings.ToUpper(name)] = fn
}

// Register an option taking exactly one file path argument.
func RegisterFile(name string, fn FileHandler) {
	RegisterOption(name, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%s takes a single file name", name)
		}
		return fn(args[0])
	})
}

// Load and process a configuration file.
func LoadConfigFile(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return LoadConfig(file)
}

// Process configuration lines from a reader.
func LoadConfig(rdr io.Reader) error {
	scanner := bufio.NewScanner(rdr)
	lineNumber = 0
	for scanner.Scan() {
		lineNumber++
		name, args, err := splitLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if name == "" {
			continue
		}
		handler, ok := options[name]
		if !ok {
			return fmt.Errorf("line %d: unknown option %s", lineNumber, name)
		}
		if err := handler(args); err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	return scanner.Err()
}

// Split a line into an upper cased option name and its arguments. Double
// quoted arguments may contain spaces.
func splitLine(line string) (string, []string, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, nil
	}

	var fields []string
	for line != "" {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			break
		}
		if line[0] == '"' {
			end := strings.IndexByte(line[1:], '"')
			if end < 0 {
				return "", nil, fmt.Errorf("unterminated quote")
			}
			fields = append(fields, line[1:end+1])
			line = line[end+2:]
			continue
		}
		cut := strings.IndexAny(line, " \t")
		if cut < 0 {
			fields = append(fields, line)
			break
		}
		fields = append(fields, line[:cut])
		line = line[cut:]
	}
	return strings.ToUpper(fields[0]), fields[1:], nil
}
