// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package card lexes and serializes the 80-byte text cards that make
// up a FITS header line. It knows nothing about FITS semantics beyond
// a card's keyword and value: HDU dispatch, mandatory keywords and
// geometry all live one layer up, in package fits.
package card

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Line is the fixed width of one FITS header card, in bytes.
const Line = 80

// Card is an 80-byte record with an uppercase keyword (up to 8
// characters), a value of one of {int, float64, bool, string,
// complex128, big.Int, nil} and an optional trailing comment.
type Card struct {
	Key     string
	Value   interface{}
	Comment string
}

var (
	kHIERARCH = []byte("HIERARCH ")
	kCOMMENT  = []byte("COMMENT ")
	kCONTINUE = []byte("CONTINUE")
	kHISTORY  = []byte("HISTORY ")
	kEND      = []byte("END     ")
	kEMPTY    = []byte("        ")
)

// Parse decodes one 80-byte header line into a Card. A "CONTINUE" card
// is returned with its Comment set to the continued string fragment;
// merging it into the previous long-string card is the caller's job.
func Parse(line []byte) (Card, error) {
	var c Card

	if len(line) != Line {
		return c, fmt.Errorf("card: invalid header line length (%d)", len(line))
	}

	valpos := 0
	keybeg := 0
	keyend := 0

	switch {
	case bytes.HasPrefix(line, kHIERARCH):
		idx := bytes.IndexByte(line, '=')
		if idx < 0 {
			c.Comment = strings.TrimRight(string(line[8:]), " ")
			return c, nil
		}
		valpos = idx + 1
		keybeg = len(kHIERARCH)
		keyend = idx

	case bytes.HasPrefix(line, kCOMMENT),
		bytes.HasPrefix(line, kCONTINUE),
		bytes.HasPrefix(line, kHISTORY),
		bytes.HasPrefix(line, kEND),
		bytes.HasPrefix(line, kEMPTY),
		!bytes.HasPrefix(line[8:], []byte("= ")):

		c.Comment = strings.TrimRight(string(line[8:]), " ")
		switch {
		case bytes.HasPrefix(line, kCOMMENT):
			c.Key = "COMMENT"
		case bytes.HasPrefix(line, kCONTINUE):
			c.Key = "CONTINUE"
			str := strings.TrimSpace(string(line[len(kCONTINUE):]))
			value, _, err := unquote(str)
			if err != nil {
				return c, err
			}
			c.Comment = value
			return c, nil
		case bytes.HasPrefix(line, kHISTORY):
			c.Key = "HISTORY"
		case bytes.HasPrefix(line, kEND):
			c.Key = "END"
		default:
			c.Key = ""
		}
		return c, nil

	default:
		valpos = 10
		keybeg = 0
		keyend = 8
	}

	c.Key = strings.TrimSpace(string(line[keybeg:keyend]))

	nblanks := 0
	for _, b := range line[valpos:] {
		if b != ' ' {
			break
		}
		nblanks++
	}

	if nblanks+valpos == len(line) {
		// legal: an undefined keyword value
		return c, nil
	}

	i := valpos + nblanks
	var err error
	switch line[i] {
	case '/':
		i++
	case '\'':
		str, idx, e := unquote(string(line[i:]))
		if e != nil {
			return c, e
		}
		if len(str) > 69 {
			str = str[:70]
		}
		c.Value = str
		i += idx

	case '(':
		idx := bytes.IndexByte(line[i:], ')')
		if idx < 0 {
			return c, fmt.Errorf("card: complex value missing closing ')' (%q)", string(line))
		}
		var x, y float64
		str := strings.TrimSpace(string(line[i : i+idx+1]))
		if _, err = fmt.Sscanf(str, "(%f,%f)", &x, &y); err != nil {
			return c, err
		}
		c.Value = complex(x, y)
		i += idx + 1

	default:
		v0 := line[i]
		value := ""
		if valend := bytes.Index(line[i:], []byte(" /")); valend < 0 {
			value = string(line[i:])
		} else {
			value = string(line[i : i+valend])
		}
		i += len(value)

		switch {
		case (v0 >= '0' && v0 <= '9') || v0 == '+' || v0 == '-':
			value = strings.TrimSpace(value)
			if strings.ContainsAny(value, ".DE") {
				value = strings.Replace(value, "D", "E", 1)
				x, e := strconv.ParseFloat(value, 64)
				if e != nil {
					return c, e
				}
				c.Value = x
			} else {
				x, e := strconv.ParseInt(value, 10, 64)
				if e != nil {
					if ne, ok := e.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
						var big big.Int
						if _, e2 := fmt.Sscanf(value, "%v", &big); e2 != nil {
							return c, e2
						}
						c.Value = big
					} else {
						return c, e
					}
				} else {
					c.Value = int(x)
				}
			}
		case v0 == 'T':
			c.Value = true
		case v0 == 'F':
			c.Value = false
		default:
			return c, fmt.Errorf("card: invalid header line (%q)", string(line))
		}
	}

	idx := bytes.IndexByte(line[i:], '/')
	if idx < 0 {
		return c, err
	}
	c.Comment = strings.TrimSpace(string(line[i+idx+1:]))
	return c, err
}

// unquote implements the FITS doubled-single-quote string escaping,
// returning the decoded string and the index in s just past the
// closing quote.
func unquote(s string) (string, int, error) {
	var buf bytes.Buffer
	state := 0
	for i, r := range s {
		quote := r == '\''
		switch state {
		case 0:
			if !quote {
				return "", i, fmt.Errorf("card: string does not start with a quote (%q)", s)
			}
			state = 1
		case 1:
			if quote {
				state = 2
			} else {
				buf.WriteRune(r)
			}
		case 2:
			if quote {
				buf.WriteRune(r)
				state = 1
			} else {
				return strings.TrimRight(buf.String(), " "), i, nil
			}
		}
	}
	if len(s) > 0 && s[len(s)-1] == '\'' {
		return strings.TrimRight(buf.String(), " "), len(s), nil
	}
	return "", 0, fmt.Errorf("card: string ends prematurely (%q)", s)
}

// RenderOptions controls how Render formats a Card into 80-byte lines.
type RenderOptions struct {
	// LongString enables CONTINUE-card emission for over-long string
	// values; corresponds to the "append" constructor option.
	LongString bool
}

// Render formats a Card into one (or, for long strings, several)
// 80-byte lines, transliterated from the teacher's ffmkky-derived
// makeHeaderLine.
func Render(c Card, opt RenderOptions) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(Line)

	switch c.Key {
	case "", "COMMENT", "HISTORY":
		str := c.Comment
		if str == "" {
			fmt.Fprintf(buf, "%-8s%-72s", c.Key, "")
			return buf.Bytes(), nil
		}
		for i := 0; i < len(str); i += 72 {
			end := i + 72
			if end > len(str) {
				end = len(str)
			}
			fmt.Fprintf(buf, "%-8s%-72s", c.Key, str[i:end])
		}
		return buf.Bytes(), nil
	case "END":
		fmt.Fprintf(buf, "%-80s", "END")
		return buf.Bytes(), nil
	}

	key := c.Key
	klen := len(key)
	hierarch := klen > 8 || verifyKey(key) != nil
	if !hierarch {
		fmt.Fprintf(buf, "%-8s= ", key)
		klen = 10
	} else {
		if strings.ContainsRune(key, '=') {
			return nil, fmt.Errorf("card: illegal keyword name, contains '=' (%s)", key)
		}
		if !strings.HasPrefix(strings.ToUpper(key), "HIERARCH ") {
			key = "HIERARCH " + key
		}
		n, err := fmt.Fprintf(buf, "%s= ", key)
		if err != nil {
			return nil, err
		}
		klen = n
	}

	if c.Value == nil {
		if klen == 10 {
			buf.Bytes()[8] = ' '
			if c.Comment != "" {
				comment := " / " + c.Comment
				max := len(comment)
				if max > Line-klen {
					max = Line - klen
				}
				fmt.Fprintf(buf, "%s", comment[:max])
			}
		}
		return pad80(buf), nil
	}

	buflen := buf.Len()
	n := 0
	var err error
	switch v := c.Value.(type) {
	case string:
		vstr := "''"
		if v != "" {
			vstr = fmt.Sprintf("'%-8s'", v)
		}
		if len(vstr) < Line-buflen || !opt.LongString {
			n, err = fmt.Fprintf(buf, "%-20s", vstr)
			if err != nil {
				return nil, err
			}
			if len(vstr) >= Line-buflen {
				// truncate: no CONTINUE support requested
				buf.Truncate(buflen)
				sz := Line - buflen - 2
				if sz < 0 {
					sz = 0
				}
				vstr = fmt.Sprintf("'%-8s'", truncate(v, sz))
				n, err = fmt.Fprintf(buf, "%-20s", vstr)
				if err != nil {
					return nil, err
				}
			}
		} else {
			n, err = writeLongString(buf, key, v, buflen)
			if err != nil {
				return nil, err
			}
			n = 0
			buflen = buf.Len() % Line
		}

	case bool:
		vv := "F"
		if v {
			vv = "T"
		}
		n, err = fmt.Fprintf(buf, "%20s", vv)
	case int:
		n, err = fmt.Fprintf(buf, "%20d", v)
	case int64:
		n, err = fmt.Fprintf(buf, "%20d", v)
	case float64:
		n, err = fmt.Fprintf(buf, "%20f", v)
	case complex128:
		n, err = fmt.Fprintf(buf, "(%10f,%10f)", real(v), imag(v))
	case big.Int:
		n, err = fmt.Fprintf(buf, "%20s", v.String())
	default:
		return nil, fmt.Errorf("card: invalid card value [%s]: %#v (%T)", c.Key, v, v)
	}
	if err != nil {
		return nil, fmt.Errorf("card: error writing value for [%s]: %w", c.Key, err)
	}

	if n+buflen > Line {
		return nil, fmt.Errorf("card: value string too big (%d) for card [%s]", n, c.Key)
	}

	buflen = buf.Len() % Line
	comment := " / " + c.Comment
	max := len(comment)
	if max > Line-buflen || (buf.Len() > Line && buf.Len()%Line == 0) {
		if buflen > 0 {
			buf.Write(bytes.Repeat([]byte(" "), Line-buflen))
		}
		cline, err := Render(Card{Key: "COMMENT", Comment: c.Comment}, opt)
		if err != nil {
			return nil, err
		}
		buf.Write(cline)
	} else if c.Comment != "" {
		fmt.Fprintf(buf, "%s", comment[:max])
	}

	return pad80(buf), nil
}

func writeLongString(buf *bytes.Buffer, key, v string, buflen int) (int, error) {
	sz := Line - buflen - 1 - 2
	head := fmt.Sprintf("'%-8s'", v[:sz]+"&")
	n, err := fmt.Fprintf(buf, "%-20s", head)
	if err != nil {
		return n, err
	}
	blocksz := Line - len("CONTINUE") - 1 - 2 - 2
	for i := sz; i < len(v); i += blocksz {
		end := i + blocksz
		amper := "&"
		if end > len(v) {
			end = len(v)
			amper = ""
		}
		vstr := fmt.Sprintf("'%-8s'", v[i:end]+amper)
		if _, err := fmt.Fprintf(buf, "CONTINUE  %-20s", vstr); err != nil {
			return 0, err
		}
	}
	n2 := buf.Len()
	align := (Line - (n2 % Line)) % Line
	if align > 0 {
		buf.Write(bytes.Repeat([]byte(" "), align))
	}
	return n, nil
}

func truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func pad80(buf *bytes.Buffer) []byte {
	n := buf.Len()
	align := (Line - (n % Line)) % Line
	if align > 0 {
		buf.Write(bytes.Repeat([]byte(" "), align))
	}
	return buf.Bytes()
}

// verifyKey checks a card name conforms to the FITS standard: only
// capital letters, digits, minus or underscore, optionally followed by
// trailing spaces.
func verifyKey(key string) error {
	spaces := false
	max := len(key)
	if max > 8 {
		max = 8
	}
	for idx, c := range key {
		switch {
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_':
			if spaces {
				return fmt.Errorf("card: name contains embedded space(s): %q", key)
			}
		case c == ' ':
			spaces = true
		default:
			return fmt.Errorf("card: name contains illegal character %q (idx=%d)", key, idx)
		}
	}
	return nil
}
