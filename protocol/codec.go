package protocol

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"weavelab.xyz/latsweep/sweep"
)

const (
	// ReadBufferSize is the size of a single raw-framing read on the responder.
	ReadBufferSize = 8192
	// HeaderSize is the length prefix used by FramingLength.
	HeaderSize = 4
	// MaxFrameSize bounds a single length-framed payload.
	MaxFrameSize = sweep.MaxStepSize

	AckTerminator = '\n'
	// AckLayout renders YYYY.MM.DD HH:mm:ss.
	AckLayout = "2006.01.02 15:04:05"
)

var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// EncodeRequest is the raw framing: the payload goes on the wire untouched.
func EncodeRequest(payload []byte) []byte {
	return payload
}

// EncodeFrame prefixes payload with its big-endian length.
func EncodeFrame(payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	return buf
}

// Encode frames payload according to f.
func Encode(f sweep.Framing, payload []byte) []byte {
	if f == sweep.FramingLength {
		return EncodeFrame(payload)
	}
	return EncodeRequest(payload)
}

func EncodeAck(timestamp string) []byte {
	buf := make([]byte, 0, len(timestamp)+1)
	buf = append(buf, timestamp...)
	return append(buf, AckTerminator)
}

func AckTimestamp(t time.Time) string {
	return t.Format(AckLayout)
}

// RequestReader yields one logical request per call. A returned count of
// zero is never reported together with a nil error.
type RequestReader interface {
	ReadRequest() (int, error)
}

func NewRequestReader(f sweep.Framing, r io.Reader) RequestReader {
	if f == sweep.FramingLength {
		return &lengthReader{r: r}
	}
	return &rawReader{r: r, buf: make([]byte, ReadBufferSize)}
}

// rawReader counts any non-empty read as one request, whatever portion of a
// payload (or how many payloads) it happened to return.
type rawReader struct {
	r   io.Reader
	buf []byte
}

func (rr *rawReader) ReadRequest() (int, error) {
	for {
		n, err := rr.r.Read(rr.buf)
		if n > 0 {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

type lengthReader struct {
	r      io.Reader
	header [HeaderSize]byte
	body   []byte
}

func (lr *lengthReader) ReadRequest() (int, error) {
	if _, err := io.ReadFull(lr.r, lr.header[:]); err != nil {
		return 0, err
	}
	size := binary.BigEndian.Uint32(lr.header[:])
	if size > MaxFrameSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}
	if cap(lr.body) < int(size) {
		lr.body = make([]byte, size)
	}
	body := lr.body[:size]
	if _, err := io.ReadFull(lr.r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	return HeaderSize + int(size), nil
}

// AckReader reads acknowledgment lines. Their content is never interpreted.
type AckReader struct {
	br *bufio.Reader
}

func NewAckReader(r io.Reader) *AckReader {
	return &AckReader{br: bufio.NewReader(r)}
}

func (a *AckReader) ReadAck() (string, error) {
	line, err := a.br.ReadString(AckTerminator)
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return line[:len(line)-1], nil
}
