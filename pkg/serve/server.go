package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/praetorian-inc/lessc/pkg/checker"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server answers parse requests read from a stream
type Server struct {
	core    *checker.Core
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(core *checker.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run writes the ready line, then answers requests in order until the
// input ends, a close request arrives or ctx is cancelled. Every request
// read before the end of input is answered.
func (s *Server) Run(ctx context.Context) error {
	s.reply("ready", ReadyData{Version: Version})

	requests := make(chan Request)
	readErr := make(chan error, 1)
	go s.read(ctx, requests, readErr)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				if err := <-readErr; err != io.EOF && ctx.Err() == nil {
					s.fail("decode", err)
				}
				return nil
			}
			if !s.dispatch(ctx, req) {
				return nil
			}
		}
	}
}

// read decodes requests until decoding fails. The failure is sent on
// readErr before requests is closed.
func (s *Server) read(ctx context.Context, requests chan<- Request, readErr chan<- error) {
	defer close(requests)
	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			readErr <- err
			return
		}
		select {
		case requests <- req:
		case <-ctx.Done():
			readErr <- ctx.Err()
			return
		}
	}
}

// dispatch answers one request and reports whether the server keeps going.
func (s *Server) dispatch(ctx context.Context, req Request) bool {
	var (
		result interface{}
		err    error
	)
	switch req.Type {
	case "close":
		return false
	case "parse":
		result, err = s.parse(ctx, req.Payload)
	case "parse_batch":
		result, err = s.parseBatch(ctx, req.Payload)
	default:
		err = fmt.Errorf("unknown request type: %s", req.Type)
	}

	if err != nil {
		s.fail(req.Type, err)
	} else {
		s.reply(req.Type, result)
	}
	return true
}

func (s *Server) parse(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var p ParsePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("invalid parse payload: %w", err)
	}
	return s.core.Check(ctx, checker.ContentItem{Filename: p.Filename, Content: p.Content}, nil)
}

func (s *Server) parseBatch(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var p ParseBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("invalid parse_batch payload: %w", err)
	}
	return s.core.CheckBatch(ctx, p.Items)
}

func (s *Server) reply(reqType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.fail(reqType, err)
		return
	}
	s.encoder.Encode(Response{Success: true, Type: reqType, Data: data})
}

func (s *Server) fail(reqType string, err error) {
	s.encoder.Encode(Response{Success: false, Type: reqType, Error: err.Error()})
}
