package server

import (
	"fmt"
	"io"
)

// response is what a route handler produces: a status, an optional
// redirect location and the body bytes. Every connection gets exactly one.
type response struct {
	status   int
	location string
	body     []byte
}

var statusText = map[int]string{
	200: "OK",
	302: "Found",
	400: "Bad Request",
	404: "Not Found",
	500: "Internal Server Error",
}

func ok(body []byte) response {
	return response{status: 200, body: body}
}

func redirect(location string) response {
	return response{status: 302, location: location}
}

func notFound() response {
	return response{status: 404, body: []byte("Not Found")}
}

func serverError() response {
	return response{status: 500, body: []byte("Internal Server Error")}
}

func badRequest() response {
	return response{status: 400, body: []byte("Bad Request")}
}

// write emits the status line, Content-Length, the Location header for
// redirects, a blank line and the body.
func (r response) write(w io.Writer) error {
	reason, ok := statusText[r.status]
	if !ok {
		reason = "Internal Server Error"
		r.status = 500
	}
	if _, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", r.status, reason); err != nil {
		return err
	}
	if r.location != "" {
		if _, err := fmt.Fprintf(w, "Location: %s\r\n", r.location); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(r.body)); err != nil {
		return err
	}
	_, err := w.Write(r.body)
	return err
}
