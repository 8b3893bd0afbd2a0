// Package payload is the serialization boundary for notification requests
// embedded inside host tray records. A marshalled request rides in the
// record's extras bag under ExtrasKey so that a later enumeration can
// recover the full structured request instead of synthesizing one from the
// generic fields the tray exposes.
package payload

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/relay-one/tray-service/internal/domain"
)

// ExtrasKey is the extras-bag key the marshalled request is stored under.
const ExtrasKey = "expo.notification_request"

var (
	ErrTruncated      = errors.New("payload: buffer truncated")
	ErrBadMagic       = errors.New("payload: bad magic")
	ErrUnknownVersion = errors.New("payload: unknown version")
	ErrMissingRequest = errors.New("payload: empty request")
)

// Codec marshals notification requests to and from byte buffers. It is the
// replaceable collaborator other packages depend on; Envelope is the
// in-tree implementation.
type Codec interface {
	Marshal(req *domain.NotificationRequest) ([]byte, error)
	Unmarshal(data []byte) (*domain.NotificationRequest, error)
}

// Envelope frames a JSON-encoded request in a versioned binary envelope:
//
//	offset 0: magic "XNRQ" (4 bytes)
//	offset 4: format version (1 byte)
//	offset 5: body length, big-endian uint32 (4 bytes)
//	offset 9: body (JSON-encoded domain.NotificationRequest)
//
// The version byte gates decoding so a future layout change cannot be
// misread as garbage fields.
type Envelope struct{}

const (
	envelopeVersion = 0x01
	headerLen       = 9
)

var magic = [4]byte{'X', 'N', 'R', 'Q'}

// NewEnvelope returns the default request codec.
func NewEnvelope() *Envelope {
	return &Envelope{}
}

func (e *Envelope) Marshal(req *domain.NotificationRequest) ([]byte, error) {
	if req == nil {
		return nil, ErrMissingRequest
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("payload: encoding request: %w", err)
	}

	buf := make([]byte, headerLen+len(body))
	copy(buf[0:4], magic[:])
	buf[4] = envelopeVersion
	binary.BigEndian.PutUint32(buf[5:9], uint32(len(body)))
	copy(buf[headerLen:], body)
	return buf, nil
}

func (e *Envelope) Unmarshal(data []byte) (*domain.NotificationRequest, error) {
	if len(data) < headerLen {
		return nil, ErrTruncated
	}
	if [4]byte(data[0:4]) != magic {
		return nil, ErrBadMagic
	}
	if data[4] != envelopeVersion {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownVersion, data[4])
	}

	bodyLen := binary.BigEndian.Uint32(data[5:9])
	if uint32(len(data)-headerLen) < bodyLen {
		return nil, ErrTruncated
	}

	var req domain.NotificationRequest
	if err := json.Unmarshal(data[headerLen:headerLen+int(bodyLen)], &req); err != nil {
		return nil, fmt.Errorf("payload: decoding request: %w", err)
	}
	if req.Identifier == "" {
		return nil, ErrMissingRequest
	}
	return &req, nil
}

// FromExtras pulls the embedded payload bytes out of an extras bag, if any.
// The second return is false when the record carries no payload at all;
// callers fall back to generic-field reconstruction in that case.
func FromExtras(extras map[string]any) ([]byte, bool) {
	raw, ok := extras[ExtrasKey]
	if !ok {
		return nil, false
	}
	data, ok := raw.([]byte)
	if !ok {
		// Present but not a byte buffer: report as a corrupt payload, not
		// as "absent", so the record is dropped rather than half-rebuilt.
		return nil, true
	}
	return data, true
}
