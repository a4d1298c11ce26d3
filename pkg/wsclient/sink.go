package wsclient

import "io"

// sinkReader adapts a subscription's unboundedQueue into an io.Reader,
// so csvstream.Decoder can read a subscription's byte stream without
// knowing anything about frames or multiplexing.
type sinkReader struct {
	out   <-chan sinkItem
	pend  []byte
	err   error
	doneE bool
}

func newSinkReader(q *unboundedQueue) *sinkReader {
	return &sinkReader{out: q.Out()}
}

func (r *sinkReader) Read(p []byte) (int, error) {
	for len(r.pend) == 0 {
		if r.doneE {
			if r.err != nil {
				return 0, r.err
			}
			return 0, io.EOF
		}
		item, ok := <-r.out
		if !ok {
			r.doneE = true
			continue
		}
		if item.Err != nil {
			r.doneE = true
			r.err = item.Err
			continue
		}
		r.pend = item.Data
	}

	n := copy(p, r.pend)
	r.pend = r.pend[n:]
	return n, nil
}
