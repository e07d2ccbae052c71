package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorDump flattens an error chain for structured logging.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`
}

// UpstreamError carries the HTTP status and a body excerpt from a failed
// backend collaborator call so the dump can surface them.
type UpstreamError struct {
	Status int
	Body   string
}

func (u *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d %s", u.Status, http.StatusText(u.Status))
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		d.UpstreamStatus = upstream.Status
		d.UpstreamBody = upstream.Body
	}

	return d
}
