package wire

import "errors"

// ErrOptionsSize reports an options payload whose length does not match the
// fixed configuration record size. Callers treat this as a configuration
// mismatch, not a fatal error.
var ErrOptionsSize = errors.New("wire: options payload size mismatch")

// OptionsSize is the exact byte length of the marshaled options record.
const OptionsSize = 8

// Options is the runtime configuration crossing the registration boundary
// as a fixed-size payload.
type Options struct {
	// ReportErrors enables error reporting from the hot path.
	ReportErrors bool

	// Fd is the output file descriptor for the trace; a negative value
	// means resolve a default trace file at flush time.
	Fd int32
}

// Marshal encodes o into its fixed 8-byte wire form.
func (o Options) Marshal() []byte {
	b := make([]byte, OptionsSize)
	if o.ReportErrors {
		b[0] = 1
	}
	order.PutUint32(b[4:], uint32(o.Fd))
	return b
}

// ParseOptions decodes a fixed-size options payload. Payloads of any other
// length yield ErrOptionsSize.
func ParseOptions(b []byte) (Options, error) {
	if len(b) != OptionsSize {
		return Options{}, ErrOptionsSize
	}
	return Options{
		ReportErrors: b[0] != 0,
		Fd:           int32(order.Uint32(b[4:])),
	}, nil
}
