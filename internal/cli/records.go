package cli

import (
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/userstore/internal/user"
)

// RecordList is the result of the get command.
type RecordList []user.Record

// RenderText implements TextRenderer.
func (l RecordList) RenderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No records.")
		return
	}
	for i, r := range l {
		writeRecord(w, "", i, r)
	}
}

// StatusResult carries the status message of a mutating command.
type StatusResult struct {
	Message string `json:"message"`
}

// RenderText implements TextRenderer.
func (s StatusResult) RenderText(w io.Writer) {
	fmt.Fprintln(w, s.Message)
}

// PageResult is the result of the list command.
type PageResult struct {
	user.PaginationResponse[[]user.Record]
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// RenderText implements TextRenderer.
func (p PageResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Page %d (size %d): %d of %d users\n", p.Page, p.PageSize, len(p.Items), p.TotalItems)
	for i, records := range p.Items {
		fmt.Fprintf(w, "user %d:\n", (p.Page-1)*p.PageSize+i+1)
		for j, r := range records {
			writeRecord(w, "  ", j, r)
		}
	}
}

// writeRecord prints one record line. Text is composed to NFC for the
// terminal only; JSON output carries the stored bytes unchanged.
func writeRecord(w io.Writer, indent string, i int, r user.Record) {
	fmt.Fprintf(w, "%s[%d] %s <%s>", indent, i, norm.NFC.String(r.Name), norm.NFC.String(r.Email))
	if r.ProfilePicture != nil {
		fmt.Fprintf(w, " (picture: %d bytes)", len(r.ProfilePicture))
	}
	fmt.Fprintln(w)
}
