package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

const indentUnit = "  "

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "rewrite source files in place")
	check := fs.Bool("check", false, "fail if any source file is not formatted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("delphi fmt: path required")
	}

	files, err := collectSourceFiles(fs.Args())
	if err != nil {
		return err
	}

	var unformatted []string
	for _, path := range files {
		changed, formatted, err := formatFile(path)
		if err != nil {
			return err
		}
		if changed {
			unformatted = append(unformatted, path)
		}
		switch {
		case *check:
		case *write:
			if changed {
				if err := replaceFile(path, formatted); err != nil {
					return err
				}
			}
		default:
			fmt.Print(formatted)
		}
	}

	if *check && len(unformatted) > 0 {
		for _, path := range unformatted {
			fmt.Println(path)
		}
		return fmt.Errorf("delphi fmt: %d file(s) need formatting", len(unformatted))
	}
	return nil
}

func formatFile(path string) (bool, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, "", fmt.Errorf("read %s: %w", path, err)
	}
	formatted := formatSource(string(data))
	return formatted != string(data), formatted, nil
}

func replaceFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var sourceExtensions = []string{".pas", ".dpr", ".pp"}

// collectSourceFiles expands each target into the Pascal sources beneath
// it. Explicit file targets are taken as-is whatever their extension.
func collectSourceFiles(targets []string) ([]string, error) {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			if slices.Contains(sourceExtensions, strings.ToLower(filepath.Ext(target))) {
				files = append(files, filepath.Clean(target))
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() && slices.Contains(sourceExtensions, strings.ToLower(filepath.Ext(path))) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// formatSource re-indents a program by its block structure: two spaces per
// open begin or class, one level for the body of a type or var section,
// and visibility keywords one level out from the members they govern.
// Lines that hold only a comment, or continue one, keep their indentation.
// Line endings become "\n" and the file ends with exactly one newline.
func formatSource(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")

	var (
		out       strings.Builder
		scan      blockScanner
		depth     int
		inSection bool
	)
	for _, line := range strings.Split(strings.TrimRight(source, " \t\n"), "\n") {
		body := strings.TrimSpace(line)
		if body == "" {
			out.WriteString("\n")
			continue
		}

		continued := scan.comment != ""
		words := scan.words(body)
		if continued || len(words) == 0 {
			out.WriteString(strings.TrimRight(expandTabs(line), " \t"))
			out.WriteString("\n")
			depth, inSection = applyWords(words, depth, inSection)
			continue
		}

		lead := words[0]
		if inSection && depth == 1 && closesSection(lead) {
			depth, inSection = 0, false
		}
		level := depth
		switch lead {
		case "end", "public", "private":
			level--
		}
		out.WriteString(strings.Repeat(indentUnit, max(level, 0)))
		out.WriteString(body)
		out.WriteString("\n")
		depth, inSection = applyWords(words, depth, inSection)
	}

	result := strings.TrimRight(out.String(), "\n")
	return result + "\n"
}

func closesSection(word string) bool {
	switch word {
	case "type", "var", "begin", "constructor", "destructor", "function", "procedure":
		return true
	}
	return false
}

func applyWords(words []string, depth int, inSection bool) (int, bool) {
	for i, word := range words {
		switch word {
		case "begin", "class":
			depth++
		case "end":
			depth = max(depth-1, 0)
		case "type", "var":
			if i == 0 && depth == 0 {
				depth, inSection = 1, true
			}
		}
	}
	return depth, inSection
}

func expandTabs(line string) string {
	body := strings.TrimLeft(line, " \t")
	indent := strings.ReplaceAll(line[:len(line)-len(body)], "\t", indentUnit)
	return indent + body
}

// blockScanner extracts lowercase words from code while skipping string
// literals and comments. Brace and paren-star comments may span lines.
type blockScanner struct {
	comment string
}

func (s *blockScanner) words(line string) []string {
	var words []string
	for i := 0; i < len(line); {
		if s.comment != "" {
			end := strings.Index(line[i:], s.comment)
			if end < 0 {
				return words
			}
			i += end + len(s.comment)
			s.comment = ""
			continue
		}

		switch c := line[i]; {
		case c == '\'':
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return words
			}
			i += end + 2
		case c == '{':
			s.comment = "}"
			i++
		case strings.HasPrefix(line[i:], "(*"):
			s.comment = "*)"
			i += 2
		case strings.HasPrefix(line[i:], "//"):
			return words
		case c == '_' || unicode.IsLetter(rune(c)):
			start := i
			for i < len(line) && (line[i] == '_' || unicode.IsLetter(rune(line[i])) || unicode.IsDigit(rune(line[i]))) {
				i++
			}
			words = append(words, strings.ToLower(line[start:i]))
		default:
			i++
		}
	}
	return words
}
