package message

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RemovalTitle is the reserved entry title marking a resource removal.
const RemovalTitle = "purgeObject"

// pathLabel is the category label carrying the resource-relative path.
const pathLabel = "path"

// Operation is the kind of change a notification describes
type Operation int

const (
	OpUpdate Operation = iota + 1
	OpRemoval
)

func (op Operation) String() string {
	switch op {
	case OpUpdate:
		return "update"
	case OpRemoval:
		return "removal"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// Notification is one inbound broker message. Immutable once created.
type Notification struct {
	// Stable identifier used for logging and diagnostics
	ID string

	// Raw payload as delivered by the transport
	Payload []byte
}

// NewNotification wraps a raw payload, generating an identifier when the
// transport did not supply one.
func NewNotification(payload []byte) *Notification {
	return &Notification{
		ID:      uuid.NewString(),
		Payload: payload,
	}
}

// ChangeEvent is the decoded form of a notification
type ChangeEvent struct {
	// Fully resolved location of the changed resource
	ResourceID string

	// Whether the resource was updated or removed
	Op Operation
}

// DecodeError indicates the payload was not a well-formed entry
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode notification: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// entry mirrors the syndication-style payload carried on the broker:
// a title acting as the operation marker plus category tags, one of
// which holds the resource-relative path.
type entry struct {
	XMLName    xml.Name   `xml:"entry"`
	Title      string     `xml:"title"`
	Categories []category `xml:"category"`
}

type category struct {
	Scheme string `xml:"scheme,attr"`
	Term   string `xml:"term,attr"`
	Label  string `xml:"label,attr"`
}

// Decode parses a raw notification payload into a ChangeEvent, resolving the
// resource location against baseURL. A title equal to RemovalTitle means the
// resource was removed; any other title means it was updated. When no "path"
// category is present the resource resolves to baseURL itself.
func Decode(raw []byte, baseURL string) (*ChangeEvent, error) {
	var e entry
	if err := xml.Unmarshal(raw, &e); err != nil {
		return nil, &DecodeError{Err: err}
	}

	op := OpUpdate
	if e.Title == RemovalTitle {
		op = OpRemoval
	}

	return &ChangeEvent{
		ResourceID: resolveResource(baseURL, e.Categories),
		Op:         op,
	}, nil
}

// EncodeEntry builds a notification payload for the given title and
// resource-relative path. Used by the publish tool and tests.
func EncodeEntry(title, path string) ([]byte, error) {
	e := entry{
		Title: title,
	}
	if path != "" {
		e.Categories = append(e.Categories, category{
			Scheme: "xsd:string",
			Term:   path,
			Label:  pathLabel,
		})
	}
	return xml.Marshal(e)
}

// resolveResource joins the base URL with the first "path" category.
// Without a path category the base URL itself identifies the resource.
func resolveResource(baseURL string, categories []category) string {
	for _, c := range categories {
		if c.Label != pathLabel {
			continue
		}
		return joinURL(baseURL, c.Term)
	}
	return baseURL
}

func joinURL(base, path string) string {
	switch {
	case strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/"):
		return strings.TrimSuffix(base, "/") + path
	case !strings.HasSuffix(base, "/") && !strings.HasPrefix(path, "/") && path != "":
		return base + "/" + path
	default:
		return base + path
	}
}
