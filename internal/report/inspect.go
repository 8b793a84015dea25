package report

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// maxInspectSize limits how much of a file InspectPDF reads (10MB).
const maxInspectSize = 10 * 1024 * 1024

// PDFInfo is the document information read back from a PDF file.
//
// PDF metadata typically contains:
//   - Creator (the application that made the document)
//   - Producer (the PDF library)
//   - Title, author and subject
//   - Creation and modification dates
type PDFInfo struct {
	Version      string
	Title        string
	Author       string
	Subject      string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time
	Pages        int
}

// IsGenerated reports whether the document was written by this tool.
func (i *PDFInfo) IsGenerated() bool {
	return i.Creator == pdfCreator
}

// InspectPDF reads the header, the information dictionary and the page count
// of a PDF. The trailer is located through startxref, /Info is read from the
// object the trailer references, and the page count is the /Count of the
// page tree root. Page content streams are never read, so text drawn on a
// page cannot change the result.
func InspectPDF(r io.Reader) (*PDFInfo, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInspectSize))
	if err != nil {
		return nil, err
	}

	header, _, _ := bytes.Cut(data, []byte("\n"))
	version, ok := bytes.CutPrefix(bytes.TrimSpace(header), []byte("%PDF-"))
	if !ok {
		return nil, ErrNotPDF
	}

	doc, err := parsePDFFile(string(data))
	if err != nil {
		return nil, err
	}

	info := &PDFInfo{Version: string(version)}
	if _, ok := doc.trailer.ref("Info"); ok {
		dict, err := doc.referenced(doc.trailer, "Info")
		if err != nil {
			return nil, err
		}
		info.Title = dict.text("Title")
		info.Author = dict.text("Author")
		info.Subject = dict.text("Subject")
		info.Creator = dict.text("Creator")
		info.Producer = dict.text("Producer")
		info.CreationDate, _ = parsePDFDate(dict.text("CreationDate"))
		info.ModDate, _ = parsePDFDate(dict.text("ModDate"))
	}

	root, err := doc.referenced(doc.trailer, "Root")
	if err != nil {
		return nil, err
	}
	pages, err := doc.referenced(root, "Pages")
	if err != nil {
		return nil, err
	}
	info.Pages, _ = pages.integer("Count")

	return info, nil
}

// InspectPDFFile runs InspectPDF on the file at path.
func InspectPDFFile(path string) (*PDFInfo, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided report path
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	info, err := InspectPDF(f)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	return info, nil
}

// pdfFile indexes the objects of a PDF by their cross-reference offsets.
type pdfFile struct {
	content string
	offsets map[int]int
	trailer pdfDict
}

// parsePDFFile reads the cross-reference table named by the last startxref
// and every older table reached through /Prev. Newer entries win.
func parsePDFFile(content string) (*pdfFile, error) {
	idx := strings.LastIndex(content, "startxref")
	if idx < 0 {
		return nil, fmt.Errorf("%w: startxref not found", ErrMalformedPDF)
	}
	l := &pdfLexer{s: content, pos: idx + len("startxref")}
	off, err := strconv.Atoi(l.token())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startxref offset", ErrMalformedPDF)
	}

	doc := &pdfFile{content: content, offsets: make(map[int]int)}
	seen := make(map[int]bool)
	for !seen[off] {
		seen[off] = true
		trailer, err := doc.readXref(off)
		if err != nil {
			return nil, err
		}
		if doc.trailer == nil {
			doc.trailer = trailer
		}
		prev, ok := trailer.integer("Prev")
		if !ok {
			break
		}
		off = prev
	}
	return doc, nil
}

// readXref records the in-use entries of the table at off and returns the
// trailer dictionary that follows it.
func (d *pdfFile) readXref(off int) (pdfDict, error) {
	if off < 0 || off >= len(d.content) {
		return nil, fmt.Errorf("%w: xref offset %d out of range", ErrMalformedPDF, off)
	}
	l := &pdfLexer{s: d.content, pos: off}
	if l.token() != "xref" {
		return nil, fmt.Errorf("%w: no xref table at offset %d", ErrMalformedPDF, off)
	}

	for {
		tok := l.token()
		if tok == "trailer" {
			break
		}
		first, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid xref subsection", ErrMalformedPDF)
		}
		count, err := strconv.Atoi(l.token())
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: invalid xref subsection", ErrMalformedPDF)
		}
		for i := range count {
			entry, err := strconv.Atoi(l.token())
			if err != nil {
				return nil, fmt.Errorf("%w: invalid xref entry", ErrMalformedPDF)
			}
			l.token() // generation
			if l.token() != "n" {
				continue
			}
			if _, ok := d.offsets[first+i]; !ok {
				d.offsets[first+i] = entry
			}
		}
	}

	trailer, ok := l.dict()
	if !ok {
		return nil, fmt.Errorf("%w: invalid trailer", ErrMalformedPDF)
	}
	return trailer, nil
}

// object returns the dictionary of object num.
func (d *pdfFile) object(num int) (pdfDict, error) {
	off, ok := d.offsets[num]
	if !ok || off < 0 || off >= len(d.content) {
		return nil, fmt.Errorf("%w: object %d not found", ErrMalformedPDF, num)
	}
	l := &pdfLexer{s: d.content, pos: off}
	if l.token() != strconv.Itoa(num) {
		return nil, fmt.Errorf("%w: object %d not at its offset", ErrMalformedPDF, num)
	}
	l.token() // generation
	if l.token() != "obj" {
		return nil, fmt.Errorf("%w: object %d not at its offset", ErrMalformedPDF, num)
	}
	dict, ok := l.dict()
	if !ok {
		return nil, fmt.Errorf("%w: object %d is not a dictionary", ErrMalformedPDF, num)
	}
	return dict, nil
}

// referenced follows the indirect reference stored under key in dict.
func (d *pdfFile) referenced(dict pdfDict, key string) (pdfDict, error) {
	num, ok := dict.ref(key)
	if !ok {
		return nil, fmt.Errorf("%w: missing /%s reference", ErrMalformedPDF, key)
	}
	return d.object(num)
}

// pdfDict maps dictionary keys (without the slash) to raw value text.
type pdfDict map[string]string

// text returns the decoded string value of key, or "" when the value is
// missing or not a string.
func (d pdfDict) text(key string) string {
	v := d[key]
	var (
		raw []byte
		ok  bool
	)
	switch {
	case strings.HasPrefix(v, "("):
		raw, _, ok = parseLiteralString(v)
	case strings.HasPrefix(v, "<"):
		raw, ok = parseHexString(v)
	}
	if !ok {
		return ""
	}
	return decodePDFText(raw)
}

// ref returns the object number of an indirect reference "N G R".
func (d pdfDict) ref(key string) (int, bool) {
	f := strings.Fields(d[key])
	if len(f) != 3 || f[2] != "R" {
		return 0, false
	}
	n, err := strconv.Atoi(f[0])
	return n, err == nil
}

func (d pdfDict) integer(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(d[key]))
	return n, err == nil
}

// pdfLexer splits PDF object syntax into tokens. It understands enough of
// the syntax to walk the cross-reference table and read dictionaries.
type pdfLexer struct {
	s   string
	pos int
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (l *pdfLexer) skipSpace() {
	for l.pos < len(l.s) {
		switch c := l.s[l.pos]; {
		case isPDFSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.s) && l.s[l.pos] != '\n' && l.s[l.pos] != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

// token returns the next raw token: a whole string, a name, a delimiter or
// a run of regular characters. It returns "" at the end of input.
func (l *pdfLexer) token() string {
	l.skipSpace()
	if l.pos >= len(l.s) {
		return ""
	}
	start := l.pos
	rest := l.s[l.pos:]
	switch c := rest[0]; {
	case c == '(':
		_, n, ok := parseLiteralString(rest)
		if !ok {
			l.pos = len(l.s)
			return ""
		}
		l.pos += n
	case strings.HasPrefix(rest, "<<"), strings.HasPrefix(rest, ">>"):
		l.pos += 2
	case c == '<':
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			l.pos = len(l.s)
			return ""
		}
		l.pos += end + 1
	case c == '/':
		l.pos++
		l.regular()
	case isPDFDelimiter(c):
		l.pos++
	default:
		l.regular()
	}
	return l.s[start:l.pos]
}

func (l *pdfLexer) regular() {
	for l.pos < len(l.s) && !isPDFSpace(l.s[l.pos]) && !isPDFDelimiter(l.s[l.pos]) {
		l.pos++
	}
}

// value reads one object and returns its raw text. An indirect reference
// "N G R" is read as a single value.
func (l *pdfLexer) value() (string, bool) {
	l.skipSpace()
	start := l.pos
	switch tok := l.token(); tok {
	case "", ">>", "]", ")", ">", "{", "}":
		return "", false
	case "<<":
		if !l.skipUntil(">>") {
			return "", false
		}
	case "[":
		if !l.skipUntil("]") {
			return "", false
		}
	default:
		if _, err := strconv.Atoi(tok); err == nil {
			save := l.pos
			gen := l.token()
			if _, err := strconv.Atoi(gen); err != nil || l.token() != "R" {
				l.pos = save
			}
		}
	}
	return l.s[start:l.pos], true
}

// skipUntil reads values until the closing token.
func (l *pdfLexer) skipUntil(closing string) bool {
	for {
		save := l.pos
		switch l.token() {
		case closing:
			return true
		case "":
			return false
		}
		l.pos = save
		if _, ok := l.value(); !ok {
			return false
		}
	}
}

// dict reads a "<< ... >>" dictionary.
func (l *pdfLexer) dict() (pdfDict, bool) {
	if l.token() != "<<" {
		return nil, false
	}
	d := make(pdfDict)
	for {
		key := l.token()
		switch {
		case key == ">>":
			return d, true
		case strings.HasPrefix(key, "/"):
			v, ok := l.value()
			if !ok {
				return nil, false
			}
			d[key[1:]] = v
		default:
			return nil, false
		}
	}
}

// parseLiteralString decodes a "(...)" string with balanced parentheses and
// backslash escapes, including octal codes. It also returns the number of
// bytes the string occupies in s.
func parseLiteralString(s string) ([]byte, int, bool) {
	var out []byte
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch e := s[i]; e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r', '\n':
				// Line continuation.
				if e == '\r' && i+1 < len(s) && s[i+1] == '\n' {
					i++
				}
			default:
				if e >= '0' && e <= '7' {
					j := i
					for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
						j++
					}
					v, _ := strconv.ParseUint(s[i:j], 8, 8) //nolint:errcheck // digits checked above
					out = append(out, byte(v))
					i = j - 1
					continue
				}
				out = append(out, e)
			}
		case c == '(':
			depth++
			if depth > 1 {
				out = append(out, c)
			}
		case c == ')':
			depth--
			if depth == 0 {
				return out, i + 1, true
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return nil, 0, false
}

// parseHexString decodes a "<...>" string. Whitespace is ignored and an odd
// trailing digit is padded with zero.
func parseHexString(s string) ([]byte, bool) {
	end := strings.IndexByte(s, '>')
	if end < 0 || strings.HasPrefix(s, "<<") {
		return nil, false
	}
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, s[1:end])
	if len(digits)%2 == 1 {
		digits += "0"
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return nil, false
	}
	return raw, true
}

// decodePDFText converts a PDF text string to UTF-8. Strings starting with
// a UTF-16BE byte order mark are decoded as UTF-16; everything else is read
// as the single-byte encoding the writer uses.
func decodePDFText(raw []byte) string {
	var (
		out []byte
		err error
	)
	if bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
		out, err = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
	} else {
		out, err = charmap.Windows1252.NewDecoder().Bytes(raw)
	}
	if err != nil {
		return strings.TrimSpace(string(raw))
	}
	return strings.TrimSpace(string(out))
}

// parsePDFDate parses "D:YYYYMMDDHHmmSS" with an optional "Z" or "+HH'mm'"
// suffix. Dates without a zone are read as UTC.
func parsePDFDate(s string) (time.Time, bool) {
	s = strings.TrimPrefix(s, "D:")
	if len(s) < 14 {
		return time.Time{}, false
	}

	t, err := time.Parse("20060102150405", s[:14])
	if err != nil {
		return time.Time{}, false
	}

	zone := s[14:]
	if zone == "" || zone[0] == 'Z' {
		return t, true
	}
	if zone[0] != '+' && zone[0] != '-' {
		return t, true
	}

	digits := strings.NewReplacer("'", "").Replace(zone[1:])
	if len(digits) < 2 {
		return t, true
	}
	hours, err := strconv.Atoi(digits[:2])
	if err != nil {
		return t, true
	}
	minutes := 0
	if len(digits) >= 4 {
		minutes, _ = strconv.Atoi(digits[2:4]) //nolint:errcheck // zero on garbage
	}
	offset := hours*3600 + minutes*60
	if zone[0] == '-' {
		offset = -offset
	}

	loc := time.FixedZone("", offset)
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	return local, true
}
