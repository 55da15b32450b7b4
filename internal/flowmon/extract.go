package flowmon

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// FlowElement is the local name of the per-flow element in a FlowMonitor document.
const FlowElement = "Flow"

// Record is one Flow element as found in the document, attributes kept as text.
type Record struct {
	Index int
	Attrs map[string]string
}

// Attr returns the named attribute, or def when the element does not carry it.
func (r Record) Attr(name, def string) string {
	if v, ok := r.Attrs[name]; ok {
		return v
	}
	return def
}

// Extract returns every Flow element of the document, at any depth, in document order.
// The document must be well-formed XML with exactly one root element; a root
// without flows is not an error.
func Extract(rd io.Reader) ([]Record, error) {
	dec := xml.NewDecoder(rd)
	records := make([]Record, 0, 16)
	depth, rootSeen := 0, false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, syntaxError(dec, "text outside root element")
			}
		case xml.EndElement:
			depth--
		case xml.StartElement:
			if depth == 0 {
				if rootSeen {
					return nil, syntaxError(dec, "more than one root element")
				}
				rootSeen = true
			}
			depth++
			if t.Name.Local != FlowElement {
				continue
			}
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			records = append(records, Record{Index: len(records), Attrs: attrs})
		}
	}

	if !rootSeen {
		return nil, syntaxError(dec, "no root element")
	}
	return records, nil
}

func syntaxError(dec *xml.Decoder, msg string) error {
	line, _ := dec.InputPos()
	return fmt.Errorf("decode xml: %w", &xml.SyntaxError{Msg: msg, Line: line})
}

// ExtractFile opens path and extracts its flow records.
func ExtractFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	return Extract(f)
}
