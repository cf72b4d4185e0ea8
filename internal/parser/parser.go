package parser

import (
	"bufio"
	"bytes"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mcncl/json2rdf/internal/errors" // Custom errors package
	"github.com/mcncl/json2rdf/internal/models"
)

// DefaultMaxDepth bounds how deeply a single document may nest arrays and
// objects. Deeper documents are rejected as malformed.
const DefaultMaxDepth = 10000

// Options controls how documents are decoded.
type Options struct {
	// MaxDepth is the maximum container nesting depth. Zero or less disables
	// the limit.
	MaxDepth int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Stream yields the top-level JSON documents of a byte stream one at a time.
//
// The input is split at top-level value boundaries before each piece is
// decoded, so a malformed document produces a parsing error for that document
// only and the following documents are still returned by later calls to Next.
// When a malformed document runs over a line break, scanning resumes at the
// next line that starts with '{' or '[', so an unclosed brace on one line of a
// JSON Lines file does not swallow the lines after it.
type Stream struct {
	src    io.Reader
	r      *bufio.Reader
	closer io.Closer
	source string
	opts   Options
	index  int
	err    error
}

// NewStream creates a Stream reading from r. source names the input in errors.
func NewStream(r io.Reader, source string, opts Options) *Stream {
	return &Stream{
		src:    r,
		r:      bufio.NewReader(r),
		source: source,
		opts:   opts,
	}
}

// OpenFile opens filePath and returns a Stream over its contents. The caller
// must Close the stream.
func OpenFile(filePath string, opts Options) (*Stream, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.IsDir() {
		_ = file.Close()
		return nil, errors.NewInputError(
			fmt.Sprintf("'%s' is a directory", filePath),
			errors.ErrInvalidFilePath,
		)
	}

	s := NewStream(file, filePath, opts)
	s.closer = file
	return s, nil
}

// Close releases the underlying file, if the stream owns one.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// Source returns the name the stream was created with.
func (s *Stream) Source() string { return s.source }

// Next returns the next document. It returns io.EOF once the input is
// exhausted. A parsing *errors.AppError means only that document was skipped
// and Next may be called again; any other error is a read failure and is
// returned again on every later call.
func (s *Stream) Next() (models.Document, error) {
	if s.err != nil {
		return models.Document{}, s.err
	}

	segment, err := s.readSegment()
	if err != nil && !stderrors.Is(err, io.ErrUnexpectedEOF) {
		if !stderrors.Is(err, io.EOF) {
			err = errors.NewInputError(fmt.Sprintf("failed to read '%s'", s.source), err)
		}
		s.err = err
		return models.Document{}, err
	}

	index := s.index
	s.index++

	if err != nil {
		s.resync(segment)
		return models.Document{}, errors.NewParsingError(
			fmt.Sprintf("document %d in '%s' is truncated", index, s.source),
			fmt.Errorf("%w: unexpected end of input", errors.ErrInvalidJSON),
		)
	}

	root, err := DecodeValue(segment, s.opts)
	if err != nil {
		s.resync(segment)
		return models.Document{}, errors.NewParsingError(
			fmt.Sprintf("document %d in '%s' could not be decoded", index, s.source),
			err,
		)
	}

	return models.Document{Index: index, Source: s.source, Root: root}, nil
}

// readSegment returns the raw bytes of the next top-level value. It returns
// io.EOF when only whitespace remains and io.ErrUnexpectedEOF, along with the
// partial bytes, when the input ends inside a value.
func (s *Stream) readSegment() ([]byte, error) {
	first, err := s.skipWhitespace()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(first)

	switch first {
	case '{', '[':
		err = s.readContainer(&buf, first)
	case '"':
		err = s.readString(&buf)
	case '}', ']', ',', ':':
		// A stray delimiter is its own malformed document.
	default:
		err = s.readBare(&buf)
	}
	if stderrors.Is(err, io.EOF) {
		return buf.Bytes(), io.ErrUnexpectedEOF
	}
	return buf.Bytes(), err
}

// resync pushes back the tail of a failed segment, starting at the first later
// line that opens an object or array, so it is scanned again.
func (s *Stream) resync(segment []byte) {
	at := nextLineStart(segment)
	if at < 0 {
		return
	}
	pending := make([]byte, 0, len(segment)-at+s.r.Buffered())
	pending = append(pending, segment[at:]...)
	buffered, _ := s.r.Peek(s.r.Buffered())
	pending = append(pending, buffered...)

	s.src = io.MultiReader(bytes.NewReader(pending), s.src)
	s.r = bufio.NewReader(s.src)
}

// nextLineStart returns the offset of the first line after the first byte of
// segment whose first byte is '{' or '[', or -1 when there is none.
func nextLineStart(segment []byte) int {
	for i := 1; i < len(segment)-1; i++ {
		if segment[i] == '\n' && (segment[i+1] == '{' || segment[i+1] == '[') {
			return i + 1
		}
	}
	return -1
}

func (s *Stream) skipWhitespace() (byte, error) {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case 0xEF:
			// UTF-8 byte order mark.
			if next, err := s.r.Peek(2); err == nil && next[0] == 0xBB && next[1] == 0xBF {
				_, _ = s.r.Discard(2)
				continue
			}
		}
		return b, nil
	}
}

// readContainer copies bytes until the container opened by open is closed.
// A closer that does not match the innermost opener ends the segment early.
func (s *Stream) readContainer(buf *bytes.Buffer, open byte) error {
	openers := []byte{open}
	inString := false
	escaped := false

	for len(openers) > 0 {
		b, err := s.r.ReadByte()
		if err != nil {
			return err
		}
		buf.WriteByte(b)

		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{', '[':
			openers = append(openers, b)
		case '}', ']':
			top := openers[len(openers)-1]
			if (top == '{' && b != '}') || (top == '[' && b != ']') {
				return nil
			}
			openers = openers[:len(openers)-1]
		}
	}
	return nil
}

func (s *Stream) readString(buf *bytes.Buffer) error {
	escaped := false
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return err
		}
		buf.WriteByte(b)
		switch {
		case escaped:
			escaped = false
		case b == '\\':
			escaped = true
		case b == '"':
			return nil
		}
	}
}

// readBare copies a literal or number up to the next whitespace or
// structural character, which is left unread.
func (s *Stream) readBare(buf *bytes.Buffer) error {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch b {
		case ' ', '\t', '\n', '\r', '{', '}', '[', ']', ',', ':', '"':
			return s.r.UnreadByte()
		}
		buf.WriteByte(b)
	}
}

// frame is an array or object under construction.
type frame struct {
	value        models.Value
	pendingKey   string
	expectingKey bool
}

// DecodeValue decodes exactly one JSON value from data, keeping object
// members in input order.
func DecodeValue(data []byte, opts Options) (models.Value, error) {
	if !json.Valid(data) {
		return models.Value{}, fmt.Errorf("%w: syntax error", errors.ErrInvalidJSON)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	var stack []*frame
	var root models.Value

	for {
		tok, err := decoder.Token()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				return models.Value{}, fmt.Errorf("%w: unexpected end of input", errors.ErrInvalidJSON)
			}
			return models.Value{}, fmt.Errorf("%w: %s", errors.ErrInvalidJSON, err.Error())
		}

		var value models.Value
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				if opts.MaxDepth > 0 && len(stack) >= opts.MaxDepth {
					return models.Value{}, fmt.Errorf("%w: more than %d levels", errors.ErrDepthExceeded, opts.MaxDepth)
				}
				f := &frame{}
				if t == '{' {
					f.value.Kind = models.Object
					f.expectingKey = true
				} else {
					f.value.Kind = models.Array
				}
				stack = append(stack, f)
				continue
			default:
				if len(stack) == 0 {
					return models.Value{}, fmt.Errorf("%w: unexpected %q", errors.ErrInvalidJSON, rune(t))
				}
				value = stack[len(stack)-1].value
				stack = stack[:len(stack)-1]
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].expectingKey {
				stack[n-1].pendingKey = t
				stack[n-1].expectingKey = false
				continue
			}
			value = models.StringValue(t)
		case json.Number:
			value = models.NumberValue(string(t))
		case float64:
			value = models.NumberValue(strconv.FormatFloat(t, 'g', -1, 64))
		case bool:
			value = models.BoolValue(t)
		case nil:
			value = models.NullValue()
		default:
			return models.Value{}, fmt.Errorf("%w: unexpected token %v", errors.ErrInvalidJSON, tok)
		}

		if len(stack) == 0 {
			root = value
			break
		}
		attach(stack[len(stack)-1], value)
	}

	if _, err := decoder.Token(); !stderrors.Is(err, io.EOF) {
		return models.Value{}, fmt.Errorf("%w: trailing data after value", errors.ErrInvalidJSON)
	}
	return root, nil
}

// attach adds value to the container f. A repeated object key keeps its
// first position and takes the latest value.
func attach(f *frame, value models.Value) {
	if f.value.Kind == models.Array {
		f.value.Items = append(f.value.Items, value)
		return
	}
	f.value.Set(f.pendingKey, value)
	f.pendingKey = ""
	f.expectingKey = true
}

// ParseString splits input into documents. Documents that fail to decode are
// skipped and their errors collected.
func ParseString(input string) ([]models.Document, []error) {
	stream := NewStream(strings.NewReader(input), "<string>", DefaultOptions())
	var docs []models.Document
	var errs []error
	for {
		doc, err := stream.Next()
		if stderrors.Is(err, io.EOF) {
			return docs, errs
		}
		if err != nil {
			errs = append(errs, err)
			if errors.IsFatal(err) {
				return docs, errs
			}
			continue
		}
		docs = append(docs, doc)
	}
}
