package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrMalformedRequest is returned when the request line, headers or
	// body cannot be parsed.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrRequestTooLarge is returned when the declared body exceeds the
	// configured maximum.
	ErrRequestTooLarge = errors.New("request body too large")
)

// Request is one parsed wire request: method, path, query parameters and
// the url-encoded form body, if any.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
}

// QueryParam returns the first value for the named query parameter.
func (r *Request) QueryParam(name string) string {
	return r.Query.Get(name)
}

// FormParam returns the first value for the named body field.
func (r *Request) FormParam(name string) string {
	return r.Form.Get(name)
}

// readRequest parses one complete request from the stream: request line,
// MIME headers, blank line, then a body of exactly Content-Length bytes.
// The body is capped at maxBody; anything larger is rejected before it is
// read.
func readRequest(br *bufio.Reader, maxBody int64) (*Request, error) {
	tp := textproto.NewReader(br)

	line, err := tp.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("read request line: %w", err)
	}
	method, target, ok := parseRequestLine(line)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}

	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, fmt.Errorf("%w: bad target %q", ErrMalformedRequest, target)
	}

	headers, err := tp.ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read headers: %w", err)
	}

	req := &Request{
		Method: method,
		Path:   u.Path,
		Query:  u.Query(),
		Form:   url.Values{},
	}

	if cl := headers.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad content length %q", ErrMalformedRequest, cl)
		}
		if n > maxBody {
			return nil, ErrRequestTooLarge
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(br, body); err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: bad form body", ErrMalformedRequest)
		}
		req.Form = form
	}

	return req, nil
}

// parseRequestLine splits "METHOD <target> <proto>" into its parts.
func parseRequestLine(line string) (method, target string, ok bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || parts[0] == "" || !strings.HasPrefix(parts[1], "/") {
		return "", "", false
	}
	return parts[0], parts[1], true
}
