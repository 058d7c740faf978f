package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"gotest.tools/v3/assert"

	"weavelab.xyz/latsweep/sweep"
)

func TestEncodeRequestIsIdentity(t *testing.T) {
	payload := []byte{1, 2, 3, 0, 255}
	assert.DeepEqual(t, EncodeRequest(payload), payload)
	assert.DeepEqual(t, Encode(sweep.FramingRaw, payload), payload)
}

func TestEncodeFrame(t *testing.T) {
	payload := bytes.Repeat([]byte{0xab}, 300)
	frame := EncodeFrame(payload)
	assert.Equal(t, len(frame), HeaderSize+300)
	assert.Equal(t, binary.BigEndian.Uint32(frame), uint32(300))
	assert.DeepEqual(t, frame[HeaderSize:], payload)
	assert.DeepEqual(t, Encode(sweep.FramingLength, payload), frame)
}

func TestEncodeAck(t *testing.T) {
	ts := AckTimestamp(time.Date(2024, time.March, 7, 9, 5, 3, 0, time.UTC))
	assert.Equal(t, ts, "2024.03.07 09:05:03")
	assert.DeepEqual(t, EncodeAck(ts), []byte("2024.03.07 09:05:03\n"))
}

func TestRawReaderCountsReads(t *testing.T) {
	// OneByteReader splits a 3-byte payload into three reads, and each one
	// counts as a request.
	rr := NewRequestReader(sweep.FramingRaw, iotest.OneByteReader(bytes.NewReader([]byte("abc"))))
	for i := 0; i < 3; i++ {
		n, err := rr.ReadRequest()
		assert.NilError(t, err)
		assert.Equal(t, n, 1)
	}
	_, err := rr.ReadRequest()
	assert.Assert(t, errors.Is(err, io.EOF))
}

func TestRawReaderSingleRead(t *testing.T) {
	rr := NewRequestReader(sweep.FramingRaw, bytes.NewReader(make([]byte, 24)))
	n, err := rr.ReadRequest()
	assert.NilError(t, err)
	assert.Equal(t, n, 24)
}

func TestLengthReader(t *testing.T) {
	var wire bytes.Buffer
	wire.Write(EncodeFrame(make([]byte, 8)))
	wire.Write(EncodeFrame(make([]byte, 16)))
	wire.Write(EncodeFrame(nil))

	lr := NewRequestReader(sweep.FramingLength, iotest.HalfReader(&wire))
	for _, want := range []int{12, 20, 4} {
		n, err := lr.ReadRequest()
		assert.NilError(t, err)
		assert.Equal(t, n, want)
	}
	_, err := lr.ReadRequest()
	assert.Assert(t, errors.Is(err, io.EOF))
}

func TestLengthReaderTruncated(t *testing.T) {
	frame := EncodeFrame(make([]byte, 10))
	lr := NewRequestReader(sweep.FramingLength, bytes.NewReader(frame[:8]))
	_, err := lr.ReadRequest()
	assert.Assert(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestLengthReaderTooLarge(t *testing.T) {
	header := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(header, MaxFrameSize+1)
	lr := NewRequestReader(sweep.FramingLength, bytes.NewReader(header))
	_, err := lr.ReadRequest()
	assert.Assert(t, errors.Is(err, ErrFrameTooLarge))
}

func TestAckReader(t *testing.T) {
	ar := NewAckReader(strings.NewReader("2024.01.01 00:00:00\nsecond\npartial"))
	line, err := ar.ReadAck()
	assert.NilError(t, err)
	assert.Equal(t, line, "2024.01.01 00:00:00")
	line, err = ar.ReadAck()
	assert.NilError(t, err)
	assert.Equal(t, line, "second")
	_, err = ar.ReadAck()
	assert.Assert(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestAckReaderEOF(t *testing.T) {
	_, err := NewAckReader(strings.NewReader("")).ReadAck()
	assert.Assert(t, errors.Is(err, io.EOF))
}
