package ingest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"dataclean/pkg/contracts/domain"
)

var errNoRecords = errors.New("document has no record elements")

// readXML treats every child of the root element as a row. Attributes of the
// row element and the text of its child elements become columns.
func readXML(data []byte) (*domain.Table, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	cb := newColumnBuilder()
	depth := 0
	row := -1
	var field string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2:
				row = cb.addRow()
				for _, attr := range t.Attr {
					cb.set(row, attr.Name.Local, InferCell(strings.TrimSpace(attr.Value)))
				}
			case 3:
				field = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 3 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 3 {
				cb.set(row, field, InferCell(strings.TrimSpace(text.String())))
			}
			depth--
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unexpected end of document")
	}
	if cb.rows == 0 {
		return nil, errNoRecords
	}
	return cb.table()
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
